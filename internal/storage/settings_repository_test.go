package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-app/backend/internal/cycle"
)

func TestSettingsDefaults(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	// Seeded defaults from the initial migration.
	s, err := r.CycleSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.Start)
	assert.Equal(t, 28, s.CycleLength)
	assert.Equal(t, 5, s.PeriodLength)

	n, err := r.NotificationSettings(ctx)
	require.NoError(t, err)
	assert.False(t, n.Enabled())
}

func TestSettingsRoundTrip(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, SettingNotifyEndpointURL, "https://ntfy.example.com"))
	require.NoError(t, r.Set(ctx, SettingNotifyTopic, "bedroom"))
	require.NoError(t, r.Set(ctx, SettingCycleStart, "2024-01-01"))
	require.NoError(t, r.Set(ctx, SettingCycleLength, "30"))

	n, err := r.NotificationSettings(ctx)
	require.NoError(t, err)
	assert.True(t, n.Enabled())
	assert.Equal(t, "https://ntfy.example.com", n.EndpointURL)
	assert.Equal(t, "bedroom", n.Topic)

	s, err := r.CycleSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, s.Start)
	assert.Equal(t, 30, s.CycleLength)
	assert.Equal(t, cycle.PhasePeriod, cycle.Classify(*s.Start, s))
}

func TestSettingsUpsertOverwrites(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, SettingNotifyTopic, "one"))
	require.NoError(t, r.Set(ctx, SettingNotifyTopic, "two"))

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", all[SettingNotifyTopic])
}

func TestSettingsMalformedCycleStart(t *testing.T) {
	r := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, SettingCycleStart, "not-a-date"))

	s, err := r.CycleSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.Start, "malformed start degrades to unset")
}
