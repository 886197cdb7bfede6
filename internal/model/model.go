package model

import (
	"time"

	"feedcal/internal/caltime"
)

// Schedule is a single concrete team-space schedule (after recurrence
// expansion and conversion to the display timezone).
type Schedule struct {
	SourceID string // feed ID from config
	TeamName string // team space the schedule belongs to
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies one occurrence of a recurring
	// schedule; derived from the local start time.
	InstanceKey string

	Title       string
	Description string
	Location    string

	AllDay bool

	StartTime time.Time
	EndTime   time.Time
}

// Period returns the schedule's [StartTime, EndTime] span.
func (s Schedule) Period() caltime.Period {
	return caltime.Period{StartTime: s.StartTime, EndTime: s.EndTime}
}
