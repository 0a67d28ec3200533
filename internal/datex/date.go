// Package datex resolves user-supplied dates and classifies distance to an
// expiry date.
package datex

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the storage and display format for expiry dates.
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^(\d{4}[-/])?(\d{1,2})[-/](\d{1,2})$`)

// Midnight returns t truncated to its calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate accepts YYYY-MM-DD, YYYY/MM/DD, MM-DD or MM/DD. When the year is
// omitted the current year is assumed; if that puts the date strictly before
// today, it rolls forward to next year. Out-of-range month/day values that
// pass the pattern are normalized by time.Date rather than rejected.
func ParseDate(now time.Time, s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if m[1] != "" {
		year, _ := strconv.Atoi(m[1][:4])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
	}

	d := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Before(Midnight(now)) {
		d = time.Date(now.Year()+1, time.Month(month), day, 0, 0, 0, 0, now.Location())
	}
	return d, true
}

// DaysUntil returns the day-count from now to the expiry date d (taken at its
// midnight boundary), rounding toward the ceiling so a same-day expiry is 0,
// never negative zero.
func DaysUntil(now time.Time, d time.Time) int {
	return int(math.Ceil(Midnight(d).Sub(now).Hours() / 24))
}

// Level buckets distance to expiry.
type Level int

const (
	LevelExpired  Level = iota // already past
	LevelToday                 // due today
	LevelCritical              // within 3 days
	LevelWarning               // within 7 days
	LevelOK                    // within 30 days
	LevelFar                   // further out, rendered as a bare date
)

// Urgency is the classification of a stored expiry date relative to now.
type Urgency struct {
	Level Level
	// Days until expiry; for LevelExpired this is the positive count of days
	// already past.
	Days int
}

// Classify computes the urgency bucket for an expiry date.
func Classify(now time.Time, d time.Time) Urgency {
	days := DaysUntil(now, d)
	switch {
	case days < 0:
		return Urgency{Level: LevelExpired, Days: -days}
	case days == 0:
		return Urgency{Level: LevelToday}
	case days <= 3:
		return Urgency{Level: LevelCritical, Days: days}
	case days <= 7:
		return Urgency{Level: LevelWarning, Days: days}
	case days <= 30:
		return Urgency{Level: LevelOK, Days: days}
	default:
		return Urgency{Level: LevelFar, Days: days}
	}
}
