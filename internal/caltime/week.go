package caltime

import (
	"fmt"
	"time"
)

var weekDayAbbrevs = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DateInfo describes a calendar date for week-view headers.
type DateInfo struct {
	// WeekDay is the English abbreviation of the date's own weekday ("Sun".."Sat").
	WeekDay string `json:"week_day"`
	// MonthWeek is "{M}월 {n}주차" of the month holding the week's Thursday.
	MonthWeek string `json:"month_week"`
	// Year is the year of the week's Thursday.
	Year int `json:"year"`
}

// DateInfoOf computes the weekday and month-week of date.
//
// A week (Sunday..Saturday) belongs to the month containing its Thursday,
// so late-month dates may report week 1 of the following month and
// early-January dates may report the previous December.
func DateInfoOf(date time.Time) DateInfo {
	dayOfDate := int(date.Weekday())

	thursday := date.AddDate(0, 0, int(time.Thursday)-dayOfDate)
	firstDay := time.Date(thursday.Year(), thursday.Month(), 1, 0, 0, 0, 0, thursday.Location())
	dayOfFirstDay := int(firstDay.Weekday())

	var week int64
	if dayOfFirstDay < int(time.Friday) {
		week = ceilDiv(int64(thursday.Day()+dayOfFirstDay), 7)
	} else {
		week = ceilDiv(int64(thursday.Day()-(7-dayOfFirstDay)), 7)
	}

	return DateInfo{
		WeekDay:   weekDayAbbrevs[dayOfDate],
		MonthWeek: fmt.Sprintf("%d월 %d주차", int(thursday.Month()), week),
		Year:      thursday.Year(),
	}
}

// RecentSunday returns midnight of the latest Sunday on or before date,
// in date's location.
func RecentSunday(date time.Time) time.Time {
	midnight := startOfDay(date)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// WeekDays returns the seven midnights Sunday..Saturday of date's week.
func WeekDays(date time.Time) []time.Time {
	sunday := RecentSunday(date)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = sunday.AddDate(0, 0, i)
	}
	return out
}
