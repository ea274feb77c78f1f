// Package timeutil provides utility functions for working with
// time-related operations.
package timeutil

import (
	"math"
	"time"
)

const secondsInAMinute = 60

// CeilSeconds converts a duration to whole seconds, rounding up so that a
// partially elapsed second still counts as remaining time.
func CeilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// SecsToMinsAndSecs expresses a seconds value in minutes and seconds.
func SecsToMinsAndSecs(val int) (mins, secs int) {
	mins = val / secondsInAMinute
	secs = val % secondsInAMinute

	return
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
