package caltime

import (
	"strconv"
	"time"
)

const justNow = "방금 전"

// Elapsed renders how long ago then was relative to now, e.g. "5분 전".
// The distance is absolute, so future instants get the same labels.
//
// Units are chained: minutes = seconds/60, hours = minutes/60,
// days = hours/24, each a floor division of the previous one.
func Elapsed(then, now time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = -d
	}
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case seconds < 60:
		return justNow
	case minutes < 60:
		return strconv.FormatInt(minutes, 10) + "분 전"
	case hours < 24:
		return strconv.FormatInt(hours, 10) + "시간 전"
	default:
		return strconv.FormatInt(days, 10) + "일 전"
	}
}

// ElapsedString parses raw with ParseInstant and formats it with Elapsed.
// Unparseable input yields ErrInvalidDateInput instead of a label.
func ElapsedString(raw string, loc *time.Location, now time.Time) (string, error) {
	then, err := ParseInstant(raw, loc)
	if err != nil {
		return "", err
	}
	return Elapsed(then, now), nil
}

// ElapsedNow is Elapsed against the system clock.
func ElapsedNow(then time.Time) string {
	return Elapsed(then, time.Now())
}
