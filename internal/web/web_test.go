package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedcal/internal/agenda"
	"feedcal/internal/caltime"
	"feedcal/internal/config"
	"feedcal/internal/model"
)

type fakeAgenda struct {
	schedules []model.Schedule
	refreshed time.Time
}

func (f fakeAgenda) Snapshot() agenda.Snapshot {
	return agenda.Snapshot{Schedules: f.schedules, RefreshedAt: f.refreshed}
}

func (f fakeAgenda) Entries(now time.Time) []agenda.Entry {
	return agenda.Annotate(f.schedules, now)
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, time.Time) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	loc := cfg.Location()
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, loc)
	ag := fakeAgenda{
		refreshed: now.Add(-5 * time.Minute),
		schedules: []model.Schedule{
			{SourceID: "team-a", TeamName: "피드한줌", UID: "retro", Title: "스프린트 회고",
				StartTime: time.Date(2024, 3, 7, 10, 0, 0, 0, loc), EndTime: time.Date(2024, 3, 7, 11, 0, 0, 0, loc)},
			{SourceID: "team-a", UID: "done", Title: "1:1",
				StartTime: time.Date(2024, 3, 4, 18, 0, 0, 0, loc), EndTime: time.Date(2024, 3, 4, 19, 0, 0, 0, loc)},
			{SourceID: "team-a", UID: "next-week", Title: "데모데이",
				StartTime: time.Date(2024, 3, 11, 14, 0, 0, 0, loc), EndTime: time.Date(2024, 3, 11, 15, 0, 0, 0, loc)},
		},
	}
	return NewServer(cfg, ag, caltime.FixedClock(now)), now
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestBasicAuth(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	})

	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/api/time-options").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/time-options", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuthDisabledWhenIncomplete(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin"}
	})
	assert.Equal(t, http.StatusOK, get(t, s, "/api/time-options").Code)
}

func TestTimeOptions(t *testing.T) {
	s, _ := newTestServer(t, nil)
	resp := decode[timeOptionsResponse](t, get(t, s, "/api/time-options"))
	assert.Equal(t, 10, resp.StepMinutes)
	require.Len(t, resp.Options, 144)
	assert.Equal(t, "23:50", resp.Options[143])
}

func TestDateInfo(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp := decode[dateInfoResponse](t, get(t, s, "/api/date-info?date=2024-07-29"))
	assert.Equal(t, "Mon", resp.WeekDay)
	assert.Equal(t, "월", resp.DayName)
	assert.Equal(t, "8월 1주차", resp.MonthWeek)
	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, []string{
		"2024-07-28", "2024-07-29", "2024-07-30", "2024-07-31",
		"2024-08-01", "2024-08-02", "2024-08-03",
	}, resp.WeekDays)

	today := decode[dateInfoResponse](t, get(t, s, "/api/date-info"))
	assert.Equal(t, "2024-03-05", today.Date)
	assert.Equal(t, "화", today.DayName)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/date-info?date=05.03.2024").Code)
}

func TestElapsed(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp := decode[elapsedResponse](t, get(t, s, "/api/elapsed?since=2024-03-05T12:00:00%2B09:00"))
	assert.Equal(t, "3시간 전", resp.Label)

	resp = decode[elapsedResponse](t, get(t, s, "/api/elapsed?since=2024-03-03T14:00:00"))
	assert.Equal(t, "2일 전", resp.Label)

	rec := get(t, s, "/api/elapsed?since=garbage")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid date input")
}

func TestCompose(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp := decode[composeResponse](t, get(t, s, "/api/compose?date=2024-03-05&time=14:30"))
	kst := time.FixedZone("KST", 9*60*60)
	assert.True(t, time.Date(2024, 3, 5, 14, 30, 0, 0, kst).Equal(resp.Instant))
	assert.True(t, time.Date(2024, 3, 5, 23, 30, 0, 0, kst).Equal(resp.KST))

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/compose?date=2024-03-05&time=24:00").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/compose?date=tomorrow&time=10:00").Code)
}

func TestDDay(t *testing.T) {
	s, _ := newTestServer(t, nil)

	resp := decode[ddayResponse](t, get(t, s, "/api/dday?start=2024-03-06T10:00:00&end=2024-03-10T10:00:00"))
	assert.Equal(t, ddayResponse{DDay: "1", Label: "D-1"}, resp)

	resp = decode[ddayResponse](t, get(t, s, "/api/dday?start=2024-03-05T18:00&end=2024-03-05T19:00"))
	assert.Equal(t, "DAY", resp.DDay)
	assert.Equal(t, "D-DAY", resp.Label)

	resp = decode[ddayResponse](t, get(t, s, "/api/dday?start=2024-03-04T10:00&end=2024-03-06T12:00"))
	assert.Equal(t, "1", resp.DDay)
	assert.True(t, resp.InProgress)

	resp = decode[ddayResponse](t, get(t, s, "/api/dday?start=2024-03-01T10:00&end=2024-03-02T10:00"))
	assert.Equal(t, "D+3", resp.Label)
	assert.True(t, resp.Finished)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/dday?start=2024-03-06&end=2024-03-05").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/dday?start=soon&end=2024-03-05").Code)
}

func TestSchedules(t *testing.T) {
	s, now := newTestServer(t, nil)

	resp := decode[schedulesResponse](t, get(t, s, "/api/schedules"))
	assert.Equal(t, "Asia/Seoul", resp.DisplayTimeZone)
	assert.True(t, now.Add(-5*time.Minute).Equal(resp.RefreshedAt))
	require.Len(t, resp.Weeks, 2)

	first := resp.Weeks[0]
	assert.Equal(t, "2024년 3월 1주차", first.Label)
	require.Len(t, first.Schedules, 2)
	assert.Equal(t, "done", first.Schedules[0].UID)
	assert.True(t, first.Schedules[0].Finished)
	assert.Equal(t, "20시간 전", first.Schedules[0].Since)
	assert.Equal(t, "retro", first.Schedules[1].UID)
	assert.Equal(t, "D-2", first.Schedules[1].DDayLabel)
	assert.Equal(t, "목", first.Schedules[1].DayName)
	assert.Equal(t, "10:00", first.Schedules[1].StartClock)

	assert.Equal(t, "2024년 3월 2주차", resp.Weeks[1].Label)

	upcoming := decode[schedulesResponse](t, get(t, s, "/api/schedules?upcoming=1"))
	require.Len(t, upcoming.Weeks, 2)
	assert.Len(t, upcoming.Weeks[0].Schedules, 1)
}

func TestSchedulesWithoutAgenda(t *testing.T) {
	s := NewServer(config.DefaultConfig(), nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/schedules").Code)
}
