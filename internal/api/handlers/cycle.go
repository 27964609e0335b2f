package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/cycle"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/storage/models"
)

// CycleMonthResponse is the calendar view for one displayed month.
type CycleMonthResponse struct {
	Year   int                 `json:"year"`
	Month  int                 `json:"month"`
	Phases map[int]cycle.Phase `json:"phases"`
	Notes  []models.Note       `json:"notes"`
}

// CycleMonth classifies every day of the requested month and bundles that
// month's notes. Settings are loaded fresh per render.
func CycleMonth(settings *storage.SettingsRepository, notes *storage.NoteRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		year, err := strconv.Atoi(vars["year"])
		if err != nil || year < 1 || year > 9999 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid year")
			return
		}
		month, err := strconv.Atoi(vars["month"])
		if err != nil || month < 1 || month > 12 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid month")
			return
		}

		cfg, err := settings.CycleSettings(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load cycle settings")
			return
		}

		monthNotes, err := notes.ListByMonth(r.Context(), year, month)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query notes")
			return
		}
		if monthNotes == nil {
			monthNotes = []models.Note{}
		}

		middleware.WriteJSON(w, http.StatusOK, CycleMonthResponse{
			Year:   year,
			Month:  month,
			Phases: cycle.Month(year, time.Month(month), cfg),
			Notes:  monthNotes,
		})
	}
}
