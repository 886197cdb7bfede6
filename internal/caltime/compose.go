package caltime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KSTOffset is the fixed shift applied by ToKST.
const KSTOffset = 9 * time.Hour

// TimeOfDay is an hour/minute pair picked from the time selector.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM" (a one-digit hour is accepted).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("caltime: %q: %w", s, ErrInvalidTimeFormat)
	}
	hour, err := parseDigits(hh)
	if err != nil || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("caltime: hour in %q: %w", s, ErrInvalidTimeFormat)
	}
	minute, err := parseDigits(mm)
	if err != nil || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("caltime: minute in %q: %w", s, ErrInvalidTimeFormat)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseDigits rejects signs and spaces that strconv.Atoi would allow.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// Compose returns date's calendar day at tod, seconds zeroed, in date's location.
func Compose(date time.Time, tod TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, date.Location())
}

// PickerToDate combines a calendar date with a "HH:MM" picker value.
func PickerToDate(date time.Time, hhmm string) (time.Time, error) {
	tod, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return Compose(date, tod), nil
}

// ToKST shifts t forward by KSTOffset. This is wall-clock arithmetic: the
// location is kept, only the instant moves.
func ToKST(t time.Time) time.Time {
	return t.Add(KSTOffset)
}
