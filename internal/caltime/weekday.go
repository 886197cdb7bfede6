package caltime

import "time"

var dayNames = [7]string{"일", "월", "화", "수", "목", "금", "토"}

var weekdayIndexByName = map[string]int{
	"Sun": 0,
	"Mon": 1,
	"Tue": 2,
	"Wed": 3,
	"Thu": 4,
	"Fri": 5,
	"Sat": 6,
}

// WeekdayRef names a weekday either by English abbreviation or by
// Sunday-first index. Build it with WeekdayByName, WeekdayByIndex or
// WeekdayOf.
type WeekdayRef struct {
	name   string
	index  int
	byName bool
}

func WeekdayByName(name string) WeekdayRef {
	return WeekdayRef{name: name, byName: true}
}

func WeekdayByIndex(i int) WeekdayRef {
	return WeekdayRef{index: i}
}

func WeekdayOf(wd time.Weekday) WeekdayRef {
	return WeekdayByIndex(int(wd))
}

// Index resolves the ref to 0..6. ok is false for unknown names and
// out-of-range indexes.
func (r WeekdayRef) Index() (int, bool) {
	if r.byName {
		i, ok := weekdayIndexByName[r.name]
		return i, ok
	}
	if r.index < 0 || r.index >= len(dayNames) {
		return 0, false
	}
	return r.index, true
}

// DayName returns the one-character Korean label ("월" for Monday).
// Unknown weekdays give "".
func DayName(r WeekdayRef) string {
	i, ok := r.Index()
	if !ok {
		return ""
	}
	return dayNames[i]
}
