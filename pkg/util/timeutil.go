package util

import (
	"fmt"
	"time"
)

// ReadableClock renders t as "Monday 7:05am".
func ReadableClock(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	period := "am"
	if t.Hour() >= 12 {
		period = "pm"
	}
	return fmt.Sprintf("%s %d:%02d%s", t.Weekday().String(), hour, t.Minute(), period)
}
