package caltime

import "time"

// Period is a schedule's [StartTime, EndTime] span. StartTime <= EndTime
// is assumed, not checked.
type Period struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Contains reports whether t lies in the period, both ends inclusive.
func (p Period) Contains(t time.Time) bool {
	return InPeriod(t, p)
}

// InPeriod reports StartTime <= t <= EndTime.
func InPeriod(t time.Time, p Period) bool {
	return !t.Before(p.StartTime) && !t.After(p.EndTime)
}

// IsFinished reports whether end lies strictly before now.
func IsFinished(end, now time.Time) bool {
	return end.Before(now)
}

// IsFinishedNow is IsFinished against the system clock.
func IsFinishedNow(end time.Time) bool {
	return IsFinished(end, time.Now())
}
