package caltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleDiff(t *testing.T) {
	// Tuesday afternoon.
	now := kstTime(2024, time.March, 5, 15, 0)

	data := []struct {
		name  string
		start time.Time
		end   time.Time
		want  DDay
	}{
		{
			name:  "starts tomorrow",
			start: kstTime(2024, time.March, 6, 10, 0),
			end:   kstTime(2024, time.March, 10, 10, 0),
			want:  DDay{Days: 1},
		},
		{
			name:  "starts in three days",
			start: kstTime(2024, time.March, 8, 9, 0),
			end:   kstTime(2024, time.March, 20, 9, 0),
			want:  DDay{Days: 3},
		},
		{
			name:  "starts later today",
			start: kstTime(2024, time.March, 5, 18, 0),
			end:   kstTime(2024, time.March, 7, 18, 0),
			want:  DDay{Today: true},
		},
		{
			name:  "started this morning, start still closer",
			start: kstTime(2024, time.March, 5, 9, 0),
			end:   kstTime(2024, time.March, 8, 9, 0),
			want:  DDay{Today: true},
		},
		{
			name:  "started yesterday evening, start still closer",
			start: kstTime(2024, time.March, 4, 20, 0),
			end:   kstTime(2024, time.March, 8, 9, 0),
			want:  DDay{Days: -1},
		},
		{
			name:  "ongoing, ends tomorrow",
			start: kstTime(2024, time.March, 4, 10, 0),
			end:   kstTime(2024, time.March, 6, 12, 0),
			want:  DDay{Days: 1},
		},
		{
			name:  "finished three days ago",
			start: kstTime(2024, time.March, 1, 10, 0),
			end:   kstTime(2024, time.March, 2, 10, 0),
			want:  DDay{Days: -3},
		},
		{
			name:  "equidistant goes to the end branch",
			start: now.Add(-time.Hour),
			end:   now.Add(time.Hour),
			want:  DDay{Days: 1},
		},
	}
	for _, d := range data {
		got := ScheduleDiff(Period{StartTime: d.start, EndTime: d.end}, now)
		assert.Equal(t, d.want, got, d.name)
	}
}

// Upcoming schedules count calendar days from midnight; ongoing ones count
// remaining time from the exact current moment.
func TestScheduleDiffBranchesRoundDifferently(t *testing.T) {
	now := kstTime(2024, time.March, 5, 15, 0)

	// Ten hours away but on the next calendar day: D-1, not D-DAY.
	upcoming := Period{
		StartTime: kstTime(2024, time.March, 6, 1, 0),
		EndTime:   kstTime(2024, time.March, 9, 1, 0),
	}
	assert.Equal(t, DDay{Days: 1}, ScheduleDiff(upcoming, now))

	// Ongoing and ending ten hours from now, also tomorrow: ceil gives 1.
	ongoing := Period{
		StartTime: kstTime(2024, time.March, 2, 1, 0),
		EndTime:   kstTime(2024, time.March, 6, 1, 0),
	}
	assert.Equal(t, DDay{Days: 1}, ScheduleDiff(ongoing, now))

	// Ongoing and ending at 23:00 today: still ceil(8h/24h) = 1, while the
	// upcoming branch would have produced D-DAY for the same calendar day.
	endsTonight := Period{
		StartTime: kstTime(2024, time.March, 1, 23, 0),
		EndTime:   kstTime(2024, time.March, 5, 23, 0),
	}
	assert.Equal(t, DDay{Days: 1}, ScheduleDiff(endsTonight, now))
}

func TestDDayFormatting(t *testing.T) {
	assert.Equal(t, "DAY", DDay{Today: true}.String())
	assert.Equal(t, "3", DDay{Days: 3}.String())
	assert.Equal(t, "-2", DDay{Days: -2}.String())
	assert.Equal(t, "0", DDay{}.String())

	assert.Equal(t, "D-DAY", DDay{Today: true}.Label())
	assert.Equal(t, "D-3", DDay{Days: 3}.Label())
	assert.Equal(t, "D+2", DDay{Days: -2}.Label())
	assert.Equal(t, "D+0", DDay{}.Label())
}

func TestRecentlyFinishedIsNotDDay(t *testing.T) {
	now := kstTime(2024, time.March, 5, 15, 0)

	endedLastNight := Period{
		StartTime: kstTime(2024, time.March, 4, 18, 0),
		EndTime:   kstTime(2024, time.March, 4, 19, 0),
	}
	d := ScheduleDiff(endedLastNight, now)
	assert.Equal(t, DDay{Days: 0}, d)
	assert.Equal(t, "0", d.String())
	assert.Equal(t, "D+0", d.Label())

	startsTonight := Period{
		StartTime: kstTime(2024, time.March, 5, 20, 0),
		EndTime:   kstTime(2024, time.March, 5, 21, 0),
	}
	assert.Equal(t, "D-DAY", ScheduleDiff(startsTonight, now).Label())
}

func TestScheduleDiffNow(t *testing.T) {
	now := time.Now()
	p := Period{StartTime: now.AddDate(0, 0, -10), EndTime: now.Add(-time.Hour).AddDate(0, 0, -9)}
	assert.Equal(t, DDay{Days: -9}, ScheduleDiffNow(p))
}
