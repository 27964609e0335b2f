package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsWithStart(start time.Time, cycleLen, periodLen int) Settings {
	return Settings{Start: &start, CycleLength: cycleLen, PeriodLength: periodLen}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyStandardCycle(t *testing.T) {
	s := settingsWithStart(day(2024, time.January, 1), 28, 5)

	cases := []struct {
		day  time.Time
		want Phase
	}{
		{day(2024, time.January, 1), PhasePeriod},
		{day(2024, time.January, 5), PhasePeriod}, // dayInCycle = 4
		{day(2024, time.January, 6), PhaseNeutral},
		{day(2024, time.January, 9), PhaseNeutral},
		// ovulation day 14, fertile window days 9..14
		{day(2024, time.January, 10), PhaseFertile},
		{day(2024, time.January, 12), PhaseFertile},
		{day(2024, time.January, 15), PhaseFertile},
		{day(2024, time.January, 16), PhaseNeutral},
		{day(2024, time.January, 20), PhaseNeutral},
		// next cycle wraps around
		{day(2024, time.January, 29), PhasePeriod},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.day, s), "day %s", tc.day.Format("2006-01-02"))
	}
}

func TestClassifyBeforeStart(t *testing.T) {
	s := settingsWithStart(day(2024, time.January, 1), 28, 5)

	// diff = -1 must resolve to dayInCycle 27, not a negative remainder.
	assert.Equal(t, PhaseNeutral, Classify(day(2023, time.December, 31), s))

	// 28 days earlier lands on a period day again.
	assert.Equal(t, PhasePeriod, Classify(day(2023, time.December, 4), s))
}

func TestClassifyNoStartConfigured(t *testing.T) {
	s := Settings{CycleLength: 28, PeriodLength: 5}

	assert.Equal(t, PhaseNeutral, Classify(day(2024, time.June, 15), s))
}

func TestClassifyDegenerateShortCycle(t *testing.T) {
	// cycleLength < 14 makes the fertile window end before day zero; every
	// non-period day must come back neutral, without panicking.
	s := settingsWithStart(day(2024, time.January, 1), 10, 3)

	for d := 1; d <= 31; d++ {
		got := Classify(day(2024, time.January, d), s)
		assert.NotEqual(t, PhaseFertile, got, "day %d", d)
	}
}

func TestClassifyZeroCycleLength(t *testing.T) {
	s := settingsWithStart(day(2024, time.January, 1), 0, 5)

	assert.Equal(t, PhaseNeutral, Classify(day(2024, time.January, 1), s))
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	s := settingsWithStart(start, 28, 5)

	at := time.Date(2024, time.January, 5, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, PhasePeriod, Classify(at, s))
}

func TestMonth(t *testing.T) {
	s := settingsWithStart(day(2024, time.January, 1), 28, 5)

	phases := Month(2024, time.January, s)
	require.Len(t, phases, 31)

	assert.Equal(t, PhasePeriod, phases[1])
	assert.Equal(t, PhasePeriod, phases[5])
	assert.Equal(t, PhaseFertile, phases[10])
	assert.Equal(t, PhaseFertile, phases[15])
	assert.Equal(t, PhaseNeutral, phases[20])
	assert.Equal(t, PhasePeriod, phases[29])
}

func TestMonthFebruaryLeapYear(t *testing.T) {
	s := Settings{CycleLength: 28, PeriodLength: 5}

	phases := Month(2024, time.February, s)
	require.Len(t, phases, 29)
}
