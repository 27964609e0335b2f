package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/storage"
)

// SettingsResponse represents settings in API responses. Values are kept as
// strings the way they are stored; consumers parse what they need.
type SettingsResponse struct {
	NotifyEndpointURL string `json:"notify_endpoint_url"`
	NotifyTopic       string `json:"notify_topic"`
	CycleStart        string `json:"cycle_start"`
	CycleLength       string `json:"cycle_length"`
	PeriodLength      string `json:"period_length"`
}

// GetSettings returns all settings.
func GetSettings(settings *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := settings.All(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, SettingsResponse{
			NotifyEndpointURL: values[storage.SettingNotifyEndpointURL],
			NotifyTopic:       values[storage.SettingNotifyTopic],
			CycleStart:        values[storage.SettingCycleStart],
			CycleLength:       values[storage.SettingCycleLength],
			PeriodLength:      values[storage.SettingPeriodLength],
		})
	}
}

// UpdateSettings updates settings. Empty fields are left untouched, so a
// partial body only changes what it names.
func UpdateSettings(settings *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		updates := map[string]string{
			storage.SettingNotifyEndpointURL: req.NotifyEndpointURL,
			storage.SettingNotifyTopic:       req.NotifyTopic,
			storage.SettingCycleStart:        req.CycleStart,
			storage.SettingCycleLength:       req.CycleLength,
			storage.SettingPeriodLength:      req.PeriodLength,
		}

		for key, value := range updates {
			if value == "" {
				continue
			}
			if err := settings.Set(r.Context(), key, value); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
				return
			}
		}

		middleware.WriteJSON(w, http.StatusOK, req)
	}
}
