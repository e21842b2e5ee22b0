package simclock

import (
	"math"
	"time"
)

// ToMs converts an instant to fractional epoch milliseconds
func ToMs(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}

// FromMs converts fractional epoch milliseconds back to a UTC instant
func FromMs(ms float64) time.Time {
	whole, frac := math.Modf(ms)
	return time.UnixMilli(int64(whole)).Add(time.Duration(frac * float64(time.Millisecond))).UTC()
}
