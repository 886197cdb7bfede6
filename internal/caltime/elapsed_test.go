package caltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsed(t *testing.T) {
	now := kstTime(2024, time.March, 5, 15, 0)

	data := []struct {
		ago  time.Duration
		want string
	}{
		{0, "방금 전"},
		{30 * time.Second, "방금 전"},
		{59*time.Second + 999*time.Millisecond, "방금 전"},
		{60 * time.Second, "1분 전"},
		{90 * time.Second, "1분 전"},
		{59*time.Minute + 59*time.Second, "59분 전"},
		{time.Hour, "1시간 전"},
		{3 * time.Hour, "3시간 전"},
		{23*time.Hour + 59*time.Minute, "23시간 전"},
		{24 * time.Hour, "1일 전"},
		{50 * time.Hour, "2일 전"},
		{400 * 24 * time.Hour, "400일 전"},
	}
	for _, d := range data {
		assert.Equal(t, d.want, Elapsed(now.Add(-d.ago), now), "ago=%s", d.ago)
	}
}

func TestElapsedIsSymmetric(t *testing.T) {
	now := kstTime(2024, time.March, 5, 15, 0)
	assert.Equal(t, "1분 전", Elapsed(now.Add(90*time.Second), now))
	assert.Equal(t, "2일 전", Elapsed(now.Add(50*time.Hour), now))
}

func TestElapsedString(t *testing.T) {
	now := kstTime(2024, time.March, 5, 15, 0)

	got, err := ElapsedString("2024-03-05T12:00:00+09:00", kst, now)
	require.NoError(t, err)
	assert.Equal(t, "3시간 전", got)

	got, err = ElapsedString("2024-03-05T14:59:30", kst, now)
	require.NoError(t, err)
	assert.Equal(t, "방금 전", got)

	_, err = ElapsedString("not a date", kst, now)
	assert.ErrorIs(t, err, ErrInvalidDateInput)
}

func TestElapsedNow(t *testing.T) {
	assert.Equal(t, "방금 전", ElapsedNow(time.Now()))
	assert.Equal(t, "2시간 전", ElapsedNow(time.Now().Add(-2*time.Hour-time.Minute)))
}
