package agenda

import (
	"sort"
	"strconv"
	"time"

	"feedcal/internal/caltime"
	"feedcal/internal/model"
)

// Entry is a schedule with every label the schedule screens show.
type Entry struct {
	Schedule model.Schedule

	DateInfo caltime.DateInfo
	DayName  string // "화"
	DDay     caltime.DDay

	StartClock string // "HH:MM" in the display timezone
	EndClock   string

	InProgress bool
	Finished   bool
	// Since is the relative label of EndTime for finished schedules ("3일 전").
	Since string
}

// Annotate labels schedules as seen at now and returns them sorted by
// start time. The input slice is not modified.
func Annotate(schedules []model.Schedule, now time.Time) []Entry {
	out := make([]Entry, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, annotateOne(s, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Schedule.StartTime.Before(out[j].Schedule.StartTime)
	})
	return out
}

func annotateOne(s model.Schedule, now time.Time) Entry {
	p := s.Period()
	info := caltime.DateInfoOf(s.StartTime)

	e := Entry{
		Schedule:   s,
		DateInfo:   info,
		DayName:    caltime.DayName(caltime.WeekdayByName(info.WeekDay)),
		DDay:       caltime.ScheduleDiff(p, now),
		StartClock: clock(s.StartTime),
		EndClock:   clock(s.EndTime),
		InProgress: caltime.InPeriod(now, p),
		Finished:   caltime.IsFinished(s.EndTime, now),
	}
	if e.Finished {
		e.Since = caltime.Elapsed(s.EndTime, now)
	}
	return e
}

func clock(t time.Time) string {
	return caltime.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}.String()
}

// Upcoming returns entries that have not finished yet.
func Upcoming(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Finished {
			out = append(out, e)
		}
	}
	return out
}

// GroupByMonthWeek buckets entries by "{Y}년 {M}월 {n}주차", keeping the
// order in which labels first appear.
func GroupByMonthWeek(entries []Entry) (labels []string, groups map[string][]Entry) {
	groups = make(map[string][]Entry)
	for _, e := range entries {
		key := strconv.Itoa(e.DateInfo.Year) + "년 " + e.DateInfo.MonthWeek
		if _, ok := groups[key]; !ok {
			labels = append(labels, key)
		}
		groups[key] = append(groups[key], e)
	}
	return labels, groups
}
