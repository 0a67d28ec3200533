package datex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestParseDate_FullForms(t *testing.T) {
	for _, in := range []string{"2027-12-31", "2027/12/31"} {
		d, ok := ParseDate(now, in)
		require.True(t, ok, in)
		assert.Equal(t, "2027-12-31", d.Format(DateLayout))
	}
}

func TestParseDate_YearOmitted(t *testing.T) {
	// Still ahead this year.
	d, ok := ParseDate(now, "12-31")
	require.True(t, ok)
	assert.Equal(t, "2026-12-31", d.Format(DateLayout))

	// Already past: rolls forward to next year.
	d, ok = ParseDate(now, "01/02")
	require.True(t, ok)
	assert.Equal(t, "2027-01-02", d.Format(DateLayout))

	// Same day does not roll forward.
	d, ok = ParseDate(now, "3-15")
	require.True(t, ok)
	assert.Equal(t, "2026-03-15", d.Format(DateLayout))
}

func TestParseDate_NeverBeforeToday_WhenYearOmitted(t *testing.T) {
	for _, in := range []string{"1-1", "3-14", "3-15", "3-16", "12-31"} {
		d, ok := ParseDate(now, in)
		require.True(t, ok, in)
		assert.False(t, d.Before(Midnight(now)), in)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2026-12", "12", "2026-12-31-5", "a-b"} {
		_, ok := ParseDate(now, in)
		assert.False(t, ok, in)
	}
}

func TestParseDate_OutOfRangeNormalized(t *testing.T) {
	d, ok := ParseDate(now, "2027-02-30")
	require.True(t, ok)
	assert.Equal(t, "2027-03-02", d.Format(DateLayout))
}

func TestDaysUntil(t *testing.T) {
	day := func(offset int) time.Time { return Midnight(now).AddDate(0, 0, offset) }

	assert.Equal(t, 0, DaysUntil(now, day(0)))
	assert.Equal(t, 1, DaysUntil(now, day(1)))
	assert.Equal(t, -1, DaysUntil(now, day(-1)))
	assert.Equal(t, 7, DaysUntil(now, day(7)))
}

func TestClassify_Boundaries(t *testing.T) {
	day := func(offset int) time.Time { return Midnight(now).AddDate(0, 0, offset) }

	assert.Equal(t, Urgency{Level: LevelToday}, Classify(now, day(0)))
	assert.Equal(t, Urgency{Level: LevelExpired, Days: 1}, Classify(now, day(-1)))
	assert.Equal(t, Urgency{Level: LevelCritical, Days: 3}, Classify(now, day(3)))
	assert.Equal(t, Urgency{Level: LevelWarning, Days: 4}, Classify(now, day(4)))
	assert.Equal(t, Urgency{Level: LevelWarning, Days: 7}, Classify(now, day(7)))
	assert.Equal(t, Urgency{Level: LevelOK, Days: 8}, Classify(now, day(8)))
	assert.Equal(t, Urgency{Level: LevelOK, Days: 30}, Classify(now, day(30)))
	assert.Equal(t, Urgency{Level: LevelFar, Days: 31}, Classify(now, day(31)))
}
