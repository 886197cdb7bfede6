// Package caltime holds the calendar-time helpers behind feedback and
// schedule screens: relative "n분 전" labels, month-week labels, weekday
// names, period checks, time-picker composition and D-day badges.
//
// Functions that depend on the current moment take it as an explicit
// now argument. The *Now variants read the system clock.
package caltime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDateInput is returned when a serialized date cannot be parsed.
	ErrInvalidDateInput = errors.New("invalid date input")
	// ErrInvalidTimeFormat is returned for time-of-day strings that are not "HH:MM".
	ErrInvalidTimeFormat = errors.New("invalid time format")
)

const day = 24 * time.Hour

// Clock abstracts time.Now so callers can pin "now" in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// instantLayouts are tried in order by ParseInstant. Zone-less layouts are
// interpreted in the caller's location.
var instantLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// ParseInstant parses the ISO-8601-like date strings the API emits
// (createdAt, startTime, endTime). Fractional seconds are accepted on
// every layout that carries seconds. A nil loc means time.Local.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("caltime: empty date: %w", ErrInvalidDateInput)
	}
	for _, l := range instantLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, loc)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("caltime: parse %q: %w", raw, ErrInvalidDateInput)
}

// startOfDay truncates t to local midnight in t's own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}
