package caltime

import "fmt"

// TimeOptionStep is the spacing of the time-picker entries.
const TimeOptionStep = 10

// timeOptions holds every 10-minute tick of a day, "00:00" .. "23:50".
var timeOptions = buildTimeOptions()

func buildTimeOptions() []string {
	perHour := 60 / TimeOptionStep
	out := make([]string, 0, 24*perHour)
	for i := 0; i < 24*perHour; i++ {
		out = append(out, fmt.Sprintf("%02d:%02d", i/perHour, (i%perHour)*TimeOptionStep))
	}
	return out
}

// TimeOptions returns a copy of the 144 time-picker entries.
func TimeOptions() []string {
	out := make([]string, len(timeOptions))
	copy(out, timeOptions)
	return out
}
