package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/keepsake-app/backend/internal/cycle"
	"github.com/keepsake-app/backend/internal/storage/models"
)

// Settings keys.
const (
	SettingNotifyEndpointURL = "notify_endpoint_url"
	SettingNotifyTopic       = "notify_topic"
	SettingCycleStart        = "cycle_start" // YYYY-MM-DD
	SettingCycleLength       = "cycle_length"
	SettingPeriodLength      = "period_length"
)

// SettingsRepository provides access to the key/value settings table.
// Consumers load settings fresh on every use so edits take effect
// immediately; nothing here is cached.
type SettingsRepository struct {
	BaseRepository
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// All retrieves every setting as a key/value map.
func (r *SettingsRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB().QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// Set upserts a single setting.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("updating setting %s: %w", key, err)
	}
	return nil
}

// NotificationSettings loads the current relay configuration.
func (r *SettingsRepository) NotificationSettings(ctx context.Context) (models.NotificationSettings, error) {
	settings, err := r.All(ctx)
	if err != nil {
		return models.NotificationSettings{}, err
	}

	return models.NotificationSettings{
		EndpointURL: settings[SettingNotifyEndpointURL],
		Topic:       settings[SettingNotifyTopic],
	}, nil
}

// CycleSettings loads the current cycle configuration. A missing or
// malformed start date leaves Start nil, which the calculator treats as
// "everything neutral".
func (r *SettingsRepository) CycleSettings(ctx context.Context) (cycle.Settings, error) {
	settings, err := r.All(ctx)
	if err != nil {
		return cycle.Settings{}, err
	}

	s := cycle.Settings{
		CycleLength:  intSetting(settings, SettingCycleLength, 28),
		PeriodLength: intSetting(settings, SettingPeriodLength, 5),
	}

	if raw := settings[SettingCycleStart]; raw != "" {
		if start, err := time.Parse(models.NoteDateLayout, raw); err == nil {
			s.Start = &start
		}
	}

	return s, nil
}

func intSetting(settings map[string]string, key string, fallback int) int {
	v, err := strconv.Atoi(settings[key])
	if err != nil {
		return fallback
	}
	return v
}
