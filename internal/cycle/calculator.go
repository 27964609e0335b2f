// Package cycle computes menstrual-cycle day classifications.
package cycle

import "time"

// Phase classifies a calendar day relative to the configured cycle.
type Phase string

const (
	PhasePeriod  Phase = "period"
	PhaseFertile Phase = "fertile"
	PhaseNeutral Phase = "neutral"
)

// Settings is an immutable snapshot of the user's cycle configuration.
// Callers load it fresh per view render.
type Settings struct {
	Start        *time.Time
	CycleLength  int
	PeriodLength int
}

// ovulationOffset is the assumed gap between ovulation and the next period.
const ovulationOffset = 14

// Classify returns the phase of a single calendar day. It is a pure
// function: no shared state, safe to call per day of a displayed month.
//
// Days before the configured start resolve via a double modulo so the
// remainder stays in [0, cycleLength) instead of going negative. For
// cycle lengths under 14 the fertile window (ending at cycleLength-14)
// falls outside the cycle and simply never matches; that is the intended
// degenerate behavior, not an error.
func Classify(day time.Time, s Settings) Phase {
	if s.Start == nil || s.CycleLength <= 0 {
		return PhaseNeutral
	}

	diff := daysBetween(*s.Start, day)
	dayInCycle := ((diff % s.CycleLength) + s.CycleLength) % s.CycleLength

	if dayInCycle < s.PeriodLength {
		return PhasePeriod
	}

	ovulationDay := s.CycleLength - ovulationOffset
	if dayInCycle >= ovulationDay-5 && dayInCycle <= ovulationDay {
		return PhaseFertile
	}

	return PhaseNeutral
}

// Month classifies every day of the given month, keyed by day of month.
func Month(year int, month time.Month, s Settings) map[int]Phase {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	phases := make(map[int]Phase, days)
	for d := 1; d <= days; d++ {
		phases[d] = Classify(time.Date(year, month, d, 0, 0, 0, 0, time.UTC), s)
	}

	return phases
}

// daysBetween returns the whole-day difference day minus start, ignoring any
// time-of-day component on either side.
func daysBetween(start, day time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(s) / (24 * time.Hour))
}
