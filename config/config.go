// Package config is responsible for the interval durations and long-break
// cadence that drive the session timer.
package config

// Default interval settings, applied on first run and whenever no
// persisted configuration exists.
const (
	defaultFocusMinutes      = 25
	defaultShortBreakMinutes = 5
	defaultLongBreakMinutes  = 15
	defaultCadence           = 4
)

// minCadence is the smallest usable long-break cadence. A cadence of 1
// would make every break a long break.
const minCadence = 2

// Config holds the interval durations and the long-break cadence. It is
// immutable per update: reconfiguration produces a new value, and a running
// interval keeps the snapshot it started with.
type Config struct {
	FocusMinutes           int `json:"focus_mins"`
	ShortBreakMinutes      int `json:"short_break_mins"`
	LongBreakMinutes       int `json:"long_break_mins"`
	SessionsUntilLongBreak int `json:"long_break_interval"`
}

// Partial is a set of optional overrides merged into an existing Config.
// Nil fields are left untouched.
type Partial struct {
	FocusMinutes           *int
	ShortBreakMinutes      *int
	LongBreakMinutes       *int
	SessionsUntilLongBreak *int
}

// IsZero reports whether the partial carries no overrides.
func (p Partial) IsZero() bool {
	return p.FocusMinutes == nil &&
		p.ShortBreakMinutes == nil &&
		p.LongBreakMinutes == nil &&
		p.SessionsUntilLongBreak == nil
}

// Default returns the stock interval settings.
func Default() Config {
	return Config{
		FocusMinutes:           defaultFocusMinutes,
		ShortBreakMinutes:      defaultShortBreakMinutes,
		LongBreakMinutes:       defaultLongBreakMinutes,
		SessionsUntilLongBreak: defaultCadence,
	}
}

// Validate performs validation checks on the Config fields.
func (c Config) Validate() error {
	if c.FocusMinutes <= 0 {
		return errInvalidDuration.Fmt("focus", c.FocusMinutes)
	}

	if c.ShortBreakMinutes <= 0 {
		return errInvalidDuration.Fmt("short break", c.ShortBreakMinutes)
	}

	if c.LongBreakMinutes <= 0 {
		return errInvalidDuration.Fmt("long break", c.LongBreakMinutes)
	}

	if c.SessionsUntilLongBreak < minCadence {
		return errInvalidCadence.Fmt(c.SessionsUntilLongBreak, minCadence)
	}

	return nil
}

// Merge applies the non-nil fields of p on top of c and validates the
// result. On failure the original Config remains in effect.
func (c Config) Merge(p Partial) (Config, error) {
	next := c

	if p.FocusMinutes != nil {
		next.FocusMinutes = *p.FocusMinutes
	}

	if p.ShortBreakMinutes != nil {
		next.ShortBreakMinutes = *p.ShortBreakMinutes
	}

	if p.LongBreakMinutes != nil {
		next.LongBreakMinutes = *p.LongBreakMinutes
	}

	if p.SessionsUntilLongBreak != nil {
		next.SessionsUntilLongBreak = *p.SessionsUntilLongBreak
	}

	if err := next.Validate(); err != nil {
		return c, err
	}

	return next, nil
}
