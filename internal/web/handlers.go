package web

import (
	"net/http"
	"time"

	"feedcal/internal/agenda"
	"feedcal/internal/caltime"
)

const dateLayout = "2006-01-02"

type timeOptionsResponse struct {
	StepMinutes int      `json:"step_minutes"`
	Options     []string `json:"options"`
}

func (s *Server) handleTimeOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, timeOptionsResponse{
		StepMinutes: caltime.TimeOptionStep,
		Options:     caltime.TimeOptions(),
	})
}

type dateInfoResponse struct {
	Date      string   `json:"date"`
	WeekDay   string   `json:"week_day"`
	DayName   string   `json:"day_name"`
	MonthWeek string   `json:"month_week"`
	Year      int      `json:"year"`
	WeekDays  []string `json:"week_days"`
}

// handleDateInfo answers GET /api/date-info?date=YYYY-MM-DD (default: today).
func (s *Server) handleDateInfo(w http.ResponseWriter, r *http.Request) {
	date := s.clock.Now().In(s.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	info := caltime.DateInfoOf(date)
	days := caltime.WeekDays(date)
	weekDays := make([]string, len(days))
	for i, d := range days {
		weekDays[i] = d.Format(dateLayout)
	}

	writeJSON(w, http.StatusOK, dateInfoResponse{
		Date:      date.Format(dateLayout),
		WeekDay:   info.WeekDay,
		DayName:   caltime.DayName(caltime.WeekdayByName(info.WeekDay)),
		MonthWeek: info.MonthWeek,
		Year:      info.Year,
		WeekDays:  weekDays,
	})
}

type elapsedResponse struct {
	Since string `json:"since"`
	Label string `json:"label"`
}

// handleElapsed answers GET /api/elapsed?since=<instant>.
func (s *Server) handleElapsed(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("since")
	label, err := caltime.ElapsedString(raw, s.loc, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, elapsedResponse{Since: raw, Label: label})
}

type composeResponse struct {
	Instant time.Time `json:"instant"`
	KST     time.Time `json:"kst"`
}

// handleCompose answers GET /api/compose?date=YYYY-MM-DD&time=HH:MM.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := time.ParseInLocation(dateLayout, q.Get("date"), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	instant, err := caltime.PickerToDate(date, q.Get("time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, composeResponse{Instant: instant, KST: caltime.ToKST(instant)})
}

type ddayResponse struct {
	DDay       string `json:"dday"`
	Label      string `json:"label"`
	InProgress bool   `json:"in_progress"`
	Finished   bool   `json:"finished"`
}

// handleDDay answers GET /api/dday?start=<instant>&end=<instant>.
func (s *Server) handleDDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := caltime.ParseInstant(q.Get("start"), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start: "+err.Error())
		return
	}
	end, err := caltime.ParseInstant(q.Get("end"), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end: "+err.Error())
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end is before start")
		return
	}

	now := s.clock.Now()
	p := caltime.Period{StartTime: start, EndTime: end}
	d := caltime.ScheduleDiff(p, now.In(s.loc))
	writeJSON(w, http.StatusOK, ddayResponse{
		DDay:       d.String(),
		Label:      d.Label(),
		InProgress: caltime.InPeriod(now, p),
		Finished:   caltime.IsFinished(end, now),
	})
}

type scheduleDTO struct {
	SourceID    string    `json:"source_id"`
	TeamName    string    `json:"team_name,omitempty"`
	UID         string    `json:"uid"`
	InstanceKey string    `json:"instance_key"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	AllDay      bool      `json:"all_day"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	StartClock  string    `json:"start_clock"`
	EndClock    string    `json:"end_clock"`
	WeekDay     string    `json:"week_day"`
	DayName     string    `json:"day_name"`
	MonthWeek   string    `json:"month_week"`
	Year        int       `json:"year"`
	DDay        string    `json:"dday"`
	DDayLabel   string    `json:"dday_label"`
	InProgress  bool      `json:"in_progress"`
	Finished    bool      `json:"finished"`
	Since       string    `json:"since,omitempty"`
}

type weekDTO struct {
	Label     string        `json:"label"`
	Schedules []scheduleDTO `json:"schedules"`
}

type schedulesResponse struct {
	RefreshedAt     time.Time `json:"refreshed_at"`
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	DisplayTimeZone string    `json:"display_timezone"`
	Weeks           []weekDTO `json:"weeks"`
	TruncatedUIDs   []string  `json:"truncated_uids,omitempty"`
	FailedFeeds     int       `json:"failed_feeds"`
}

// handleSchedules answers GET /api/schedules?upcoming=1 with the agenda
// grouped by month-week. Labels are computed at request time.
func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	if s.agenda == nil {
		writeError(w, http.StatusServiceUnavailable, "agenda not configured")
		return
	}
	snap := s.agenda.Snapshot()
	entries := s.agenda.Entries(s.clock.Now())
	if r.URL.Query().Get("upcoming") == "1" {
		entries = agenda.Upcoming(entries)
	}

	labels, groups := agenda.GroupByMonthWeek(entries)
	weeks := make([]weekDTO, 0, len(labels))
	for _, label := range labels {
		g := groups[label]
		dtos := make([]scheduleDTO, 0, len(g))
		for _, e := range g {
			dtos = append(dtos, toScheduleDTO(e))
		}
		weeks = append(weeks, weekDTO{Label: label, Schedules: dtos})
	}

	writeJSON(w, http.StatusOK, schedulesResponse{
		RefreshedAt:     snap.RefreshedAt,
		WindowStart:     snap.WindowStart,
		WindowEnd:       snap.WindowEnd,
		DisplayTimeZone: s.loc.String(),
		Weeks:           weeks,
		TruncatedUIDs:   snap.Truncated,
		FailedFeeds:     snap.FailedFeeds,
	})
}

func toScheduleDTO(e agenda.Entry) scheduleDTO {
	sc := e.Schedule
	return scheduleDTO{
		SourceID:    sc.SourceID,
		TeamName:    sc.TeamName,
		UID:         sc.UID,
		InstanceKey: sc.InstanceKey,
		Title:       sc.Title,
		Description: sc.Description,
		Location:    sc.Location,
		AllDay:      sc.AllDay,
		StartTime:   sc.StartTime,
		EndTime:     sc.EndTime,
		StartClock:  e.StartClock,
		EndClock:    e.EndClock,
		WeekDay:     e.DateInfo.WeekDay,
		DayName:     e.DayName,
		MonthWeek:   e.DateInfo.MonthWeek,
		Year:        e.DateInfo.Year,
		DDay:        e.DDay.String(),
		DDayLabel:   e.DDay.Label(),
		InProgress:  e.InProgress,
		Finished:    e.Finished,
		Since:       e.Since,
	}
}
