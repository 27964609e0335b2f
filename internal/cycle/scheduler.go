package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SettingsSource loads the current cycle configuration.
type SettingsSource interface {
	CycleSettings(ctx context.Context) (Settings, error)
}

// Announcer pushes a best-effort text notification.
type Announcer interface {
	Announce(ctx context.Context, title, message string)
}

// Scheduler runs a daily job that announces the first day of a period.
// Announcements ride the same best-effort relay as draw notifications, so a
// missing or broken endpoint is silently ignored.
type Scheduler struct {
	cron      *cron.Cron
	settings  SettingsSource
	announcer Announcer
	log       zerolog.Logger

	now func() time.Time
}

// NewScheduler creates a reminder scheduler firing at the given local hour.
func NewScheduler(settings SettingsSource, announcer Announcer, hour int, log zerolog.Logger) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = 9
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		settings:  settings,
		announcer: announcer,
		log:       log.With().Str("component", "cycle-scheduler").Logger(),
		now:       time.Now,
	}

	s.cron.AddFunc(fmt.Sprintf("0 0 %d * * *", hour), s.checkToday)
	return s
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.log.Info().Msg("starting cycle reminder scheduler")
	s.cron.Start()
}

// Stop halts the scheduler. Already-running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// checkToday announces when today is the first day of a period.
func (s *Scheduler) checkToday() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings, err := s.settings.CycleSettings(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("loading cycle settings failed")
		return
	}

	today := s.now()
	if Classify(today, settings) != PhasePeriod {
		return
	}
	if Classify(today.AddDate(0, 0, -1), settings) == PhasePeriod {
		// Mid-period, already announced on day one.
		return
	}

	s.announcer.Announce(ctx, "Cycle reminder", "Period expected to start today")
}
