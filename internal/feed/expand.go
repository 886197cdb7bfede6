package feed

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "feedcal/internal/log"
	"feedcal/internal/model"
)

const defaultMaxPerEvent = 5000

// Window selects which schedules Expand keeps.
type Window struct {
	// Location is the display timezone; nil means time.Local.
	Location *time.Location

	// Start / End bound the window inclusively. A schedule is kept when
	// its span touches the window.
	Start time.Time
	End   time.Time

	// MaxPerEvent caps occurrences of one recurring schedule; zero means 5000.
	MaxPerEvent int
}

// ExpandResult holds the expanded schedules sorted by start time.
type ExpandResult struct {
	Schedules []model.Schedule
	// Truncated lists UIDs that hit MaxPerEvent.
	Truncated []string
}

// Expand turns parsed events into concrete schedules inside w. It handles
// single events, RRULE recurrence with EXDATE, RECURRENCE-ID overrides and
// all-day events (kept on their calendar day in the display timezone).
func Expand(events []Event, w Window) (ExpandResult, error) {
	var result ExpandResult

	if w.End.Before(w.Start) {
		return result, errors.New("feed: window end is before window start")
	}
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.MaxPerEvent <= 0 {
		w.MaxPerEvent = defaultMaxPerEvent
	}

	bases := make(map[string][]Event)
	overrides := make(map[string][]Event)
	var uids []string
	for _, ev := range events {
		key := ev.Source.ID + "\x00" + ev.UID
		if ev.IsOverride() {
			overrides[key] = append(overrides[key], ev)
			continue
		}
		if _, seen := bases[key]; !seen {
			uids = append(uids, key)
		}
		bases[key] = append(bases[key], ev)
	}

	for _, key := range uids {
		for _, ev := range bases[key] {
			var (
				out    []model.Schedule
				capped bool
				err    error
			)
			if ev.RawRRule == "" {
				out = expandSingle(ev, overrides[key], w)
			} else {
				out, capped, err = expandRecurring(ev, overrides[key], w)
				if err != nil {
					appLog.Error("feed expand: bad RRULE, event skipped", err, "uid", ev.UID, "rrule", ev.RawRRule)
					continue
				}
			}
			if capped {
				result.Truncated = append(result.Truncated, ev.UID)
				appLog.Info("feed expand: occurrences capped", "uid", ev.UID, "cap", w.MaxPerEvent)
			}
			result.Schedules = append(result.Schedules, out...)
		}
	}

	sort.SliceStable(result.Schedules, func(i, j int) bool {
		return result.Schedules[i].StartTime.Before(result.Schedules[j].StartTime)
	})
	return result, nil
}

func expandSingle(ev Event, overrides []Event, w Window) []model.Schedule {
	start, end := ev.Start, ev.End
	if o, ok := findOverride(overrides, start); ok {
		ev, start, end = o, o.Start, o.End
	}
	s := makeSchedule(ev, start, end, w.Location)
	if !touches(s.StartTime, s.EndTime, w.Start, w.End) {
		return nil
	}
	return []model.Schedule{s}
}

func expandRecurring(ev Event, overrides []Event, w Window) ([]model.Schedule, bool, error) {
	opt, err := rrule.StrToROptionInLocation(ev.RawRRule, ev.Start.Location())
	if err != nil {
		return nil, false, fmt.Errorf("feed: rrule %q: %w", ev.RawRRule, err)
	}
	opt.Dtstart = ev.Start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, false, fmt.Errorf("feed: rrule %q: %w", ev.RawRRule, err)
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex)
	}

	// Widen the lower bound by the event duration so instances that started
	// before the window but are still running are kept.
	dur := ev.End.Sub(ev.Start)
	starts := set.Between(w.Start.Add(-dur), w.End, true)

	capped := false
	if len(starts) > w.MaxPerEvent {
		starts = starts[:w.MaxPerEvent]
		capped = true
	}

	out := make([]model.Schedule, 0, len(starts))
	used := make([]bool, len(overrides))
	for _, occStart := range starts {
		base, start, end := ev, occStart, occStart.Add(dur)
		if ev.AllDay {
			end = occStart.AddDate(0, 0, calendarDays(ev.Start, ev.End))
		}
		if i := overrideIndex(overrides, occStart); i >= 0 {
			used[i] = true
			o := overrides[i]
			base, start, end = o, o.Start, o.End
		}
		s := makeSchedule(base, start, end, w.Location)
		if touches(s.StartTime, s.EndTime, w.Start, w.End) {
			out = append(out, s)
		}
	}

	// Instances moved into the window from an occurrence outside it.
	for i, o := range overrides {
		if used[i] {
			continue
		}
		s := makeSchedule(o, o.Start, o.End, w.Location)
		if touches(s.StartTime, s.EndTime, w.Start, w.End) {
			out = append(out, s)
		}
	}
	return out, capped, nil
}

// findOverride returns the override whose RECURRENCE-ID equals start.
func findOverride(overrides []Event, start time.Time) (Event, bool) {
	if i := overrideIndex(overrides, start); i >= 0 {
		return overrides[i], true
	}
	return Event{}, false
}

func overrideIndex(overrides []Event, start time.Time) int {
	for i, o := range overrides {
		if o.Recurrence != nil && o.Recurrence.Equal(start) {
			return i
		}
	}
	return -1
}

// makeSchedule converts an event instance into the display timezone.
// All-day instances keep their calendar dates rather than their instants.
func makeSchedule(ev Event, start, end time.Time, loc *time.Location) model.Schedule {
	if ev.AllDay {
		days := calendarDays(start, end)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, days)
	} else {
		start = start.In(loc)
		end = end.In(loc)
	}

	return model.Schedule{
		SourceID:    ev.Source.ID,
		TeamName:    ev.Source.Name,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339),
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		StartTime:   start,
		EndTime:     end,
	}
}

// calendarDays counts whole calendar days from a's date to b's date,
// at least one.
func calendarDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	n := int(db.Sub(da) / (24 * time.Hour))
	if n < 1 {
		n = 1
	}
	return n
}

func touches(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
