// Package reward provides the default points strategy for finished focus
// sessions. The timer engine treats the formula as pluggable; embedders can
// substitute their own Rewarder.
package reward

import "github.com/ayoisaiah/grove/internal/session"

// DefaultPointsPerMinute is the flat rate used when no other strategy is
// configured.
const DefaultPointsPerMinute = 2

// FlatRate awards a fixed number of points per focus minute. Breaks earn
// nothing.
type FlatRate struct {
	PointsPerMinute int
}

func NewFlatRate() FlatRate {
	return FlatRate{PointsPerMinute: DefaultPointsPerMinute}
}

func (f FlatRate) Award(name session.Type, minutes int) int {
	if name != session.Focus {
		return 0
	}

	return f.PointsPerMinute * minutes
}
