// Package session defines the canonical record for focus and break
// intervals.
package session

import (
	"time"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/timeutil"
)

// Type represents the kind of interval being timed.
type Type string

const (
	Focus      Type = "focus"
	ShortBreak Type = "short_break"
	LongBreak  Type = "long_break"
)

// Status represents the lifecycle state of the current interval.
type Status string

const (
	Idle      Status = "idle"
	Running   Status = "running"
	Paused    Status = "paused"
	Completed Status = "completed"
)

// State is the canonical record of the current interval. EndTime is the
// single source of truth for when a running interval is due: TimeLeft is a
// cached value, valid only as of the last recomputation, and must never be
// trusted while the interval is running.
type State struct {
	// StartTime is set when the interval begins running and is zero
	// otherwise.
	StartTime time.Time `json:"start_time"`
	// EndTime is the absolute deadline of a running interval and is zero
	// otherwise.
	EndTime time.Time `json:"end_time"`
	Type    Type      `json:"session_type"`
	Status  Status    `json:"status"`
	// Number is a cursor through the focus/break cadence. It decides
	// short-vs-long break and is incremented on each focus completion.
	Number int `json:"session_number"`
	// Completed counts focus intervals ever finished. It only increases.
	Completed int `json:"completed_sessions"`
	// TimeLeft is the cached remaining time in seconds.
	TimeLeft int `json:"time_left_seconds"`
	// Config is the snapshot of settings in effect for this state, so a
	// reconfiguration never corrupts an in-flight deadline.
	Config config.Config `json:"config"`
}

// Initial returns the state a fresh installation starts from.
func Initial(cfg config.Config) State {
	s := State{
		Type:   Focus,
		Status: Idle,
		Number: 1,
		Config: cfg,
	}

	s.TimeLeft = int(s.Duration().Seconds())

	return s
}

// Duration returns the configured length of the current interval type.
func (s *State) Duration() time.Duration {
	return s.DurationFor(s.Type)
}

// DurationFor returns the configured length for the given interval type.
func (s *State) DurationFor(t Type) time.Duration {
	var mins int

	switch t {
	case Focus:
		mins = s.Config.FocusMinutes
	case ShortBreak:
		mins = s.Config.ShortBreakMinutes
	case LongBreak:
		mins = s.Config.LongBreakMinutes
	}

	return time.Duration(mins) * time.Minute
}

// Running reports whether the interval is counting down.
func (s *State) Running() bool {
	return s.Status == Running
}

// Remaining derives the remaining whole seconds from the deadline. It never
// returns a negative value.
func (s *State) Remaining(now time.Time) int {
	secs := timeutil.CeilSeconds(s.EndTime.Sub(now))
	if secs < 0 {
		secs = 0
	}

	return secs
}

// ProgressPercent reports how much of the current interval has elapsed,
// from 0 to 100, based on the cached remaining time.
func (s *State) ProgressPercent() float64 {
	total := s.Duration().Seconds()
	if total <= 0 {
		return 0
	}

	percent := (1 - float64(s.TimeLeft)/total) * 100
	if percent < 0 {
		percent = 0
	}

	if percent > 100 {
		percent = 100
	}

	return percent
}

// Label returns the human-readable name of the current interval.
func (s *State) Label() string {
	switch s.Type {
	case Focus:
		return "Focus"
	case ShortBreak:
		return "Short break"
	case LongBreak:
		return "Long break"
	}

	return string(s.Type)
}

// Valid reports whether the state upholds its invariants: both timestamps
// are set iff the interval is running, and the deadline follows the start.
func (s *State) Valid() bool {
	if s.Number < 1 || s.Completed < 0 {
		return false
	}

	if s.Status == Running {
		return !s.StartTime.IsZero() && !s.EndTime.IsZero() &&
			s.EndTime.After(s.StartTime)
	}

	return s.StartTime.IsZero() && s.EndTime.IsZero()
}

// Record is a finished focus interval as written to the session history.
// It is the payload handed off for long-term storage on focus completion.
type Record struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Name      Type      `json:"name"`
	Duration  int       `json:"duration_mins"`
}
