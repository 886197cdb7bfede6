package caltime

import (
	"strconv"
	"time"
)

// DDay is the badge value of a schedule: either Today or a day offset.
type DDay struct {
	Today bool `json:"today"`
	Days  int  `json:"days"`
}

// String returns "DAY" for today, otherwise the signed offset.
func (d DDay) String() string {
	if d.Today {
		return "DAY"
	}
	return strconv.Itoa(d.Days)
}

// Label renders the badge text: "D-DAY", "D-3" (ahead) or "D+2" (behind).
//
// A zero Days outside Today comes from the ongoing/past branch, i.e. the
// schedule ended less than a day ago. It is rendered "D+0", keeping
// "D-DAY" for schedules that start today.
func (d DDay) Label() string {
	switch {
	case d.Today:
		return "D-DAY"
	case d.Days > 0:
		return "D-" + strconv.Itoa(d.Days)
	default:
		return "D+" + strconv.Itoa(-d.Days)
	}
}

// ScheduleDiff computes the D-day of p as seen at now.
//
// When StartTime is closer to now than EndTime the schedule counts as
// upcoming: now is truncated to midnight and the result is the floored
// day count to StartTime (0 becomes Today). Otherwise it counts as
// ongoing or past: the ceiled day count from the untruncated now to
// EndTime. The two branches round differently on purpose; upcoming
// schedules count calendar days, ongoing ones count remaining time.
func ScheduleDiff(p Period, now time.Time) DDay {
	toStart := absDuration(p.StartTime.Sub(now))
	toEnd := absDuration(p.EndTime.Sub(now))

	if toStart < toEnd {
		midnight := startOfDay(now)
		diff := floorDiv(int64(p.StartTime.Sub(midnight)), int64(day))
		if diff == 0 {
			return DDay{Today: true}
		}
		return DDay{Days: int(diff)}
	}

	return DDay{Days: int(ceilDiv(int64(p.EndTime.Sub(now)), int64(day)))}
}

// ScheduleDiffNow is ScheduleDiff against the system clock.
func ScheduleDiffNow(p Period) DDay {
	return ScheduleDiff(p, time.Now())
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
