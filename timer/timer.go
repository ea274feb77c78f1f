// Package timer operates the Grove session timer and handles the recovery
// of interrupted timers
package timer

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/session"
	"github.com/ayoisaiah/grove/internal/timeutil"
	"github.com/ayoisaiah/grove/store"
)

// Rewarder computes the points awarded for a finished interval. The engine
// never computes point values itself; the surrounding application decides
// the formula.
type Rewarder interface {
	Award(name session.Type, minutes int) int
}

// Notifier is invoked once per completion transition. Fire-and-forget.
type Notifier interface {
	SessionEnded(finished, next session.Type)
}

// Syncer receives each finished focus interval for long-term storage. The
// engine does not retry or verify the hand-off.
type Syncer interface {
	Record(rec session.Record)
}

// Engine owns the session state and moves it through the focus/break
// cadence. All mutation is serialized through the transition mutex: the
// periodic tick and an externally triggered wake-up both route through the
// same running-status guard, so an interval is never completed twice.
type Engine struct {
	db       store.DB
	now      func() time.Time
	logger   *slog.Logger
	rewarder Rewarder
	notifier Notifier
	syncer   Syncer
	hub      *hub
	stopTick func()
	state    session.State
	// tx is held for the whole of a transition, from mutation through the
	// observer pass, so hooks and notifications commit in transition order
	// and two passes never run at once.
	tx sync.Mutex
	// mu guards only the state fields. Observers run with tx held but mu
	// released, so they may call State mid-pass.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func WithRewarder(r Rewarder) Option {
	return func(e *Engine) {
		e.rewarder = r
	}
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

func WithSyncer(s Syncer) Option {
	return func(e *Engine) {
		e.syncer = s
	}
}

// New creates the engine, reconciling any persisted state against the
// current clock. A persisted interval whose deadline passed while the
// process was away is completed immediately (exactly once, no matter how
// long the process was gone), so the caller never observes a stale
// "running, but already over" state.
func New(db store.DB, cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		db:     db,
		now:    time.Now,
		logger: slog.Default(),
		hub:    newHub(),
	}

	for _, opt := range opts {
		opt(e)
	}

	state, ev := recoverState(db, cfg, e.now(), e.logger)

	// The loaded config is authoritative: a restored snapshot isolates a
	// committed deadline, never stale settings. A running or paused
	// interval keeps its remaining time; the new durations take effect
	// from the next interval.
	if state.Config != cfg {
		state.Config = cfg

		if state.Status == session.Idle ||
			state.Status == session.Completed {
			state.TimeLeft = int(state.Duration().Seconds())
		}
	}

	e.state = state

	e.persistLocked()

	if ev != nil {
		if ev.finished == session.Focus {
			e.recordHistoryLocked(ev.record)
		}

		e.dispatch(ev)
	}

	if e.state.Running() {
		e.startTickLocked()
	}

	return e, nil
}

// State returns a read-only snapshot of the session state.
func (e *Engine) State() session.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Subscribe registers an observer invoked after every committed state
// change. The returned function removes the observer.
func (e *Engine) Subscribe(fn func()) func() {
	return e.hub.subscribe(fn)
}

// CanStart reports whether Start would begin a new interval.
func (e *Engine) CanStart() bool {
	st := e.State()

	return st.Status == session.Idle || st.Status == session.Completed
}

// CanSkip reports whether Skip would advance past the pending interval.
func (e *Engine) CanSkip() bool {
	return e.CanStart()
}

// ProgressPercent reports how much of the current interval has elapsed,
// from 0 to 100.
func (e *Engine) ProgressPercent() float64 {
	st := e.State()

	return st.ProgressPercent()
}

// Label returns the human-readable name of the current interval.
func (e *Engine) Label() string {
	st := e.State()

	return st.Label()
}

// Start begins the pending interval. Starting an interval that is already
// running (or paused) is a safe no-op.
func (e *Engine) Start() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	if e.state.Status != session.Idle &&
		e.state.Status != session.Completed {
		e.mu.Unlock()
		return
	}

	now := e.now()

	e.state.StartTime = now
	e.state.EndTime = now.Add(e.state.Duration())
	e.state.Status = session.Running
	e.state.TimeLeft = int(e.state.Duration().Seconds())

	e.persistLocked()
	e.startTickLocked()

	e.mu.Unlock()

	e.hub.notify()
}

// Complete finishes the running interval and advances the cadence. Calling
// it when nothing is running is a safe no-op, which keeps the two
// completion triggers (tick and wake-up) idempotent.
func (e *Engine) Complete() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()
	ev := e.completeLocked(e.now())
	e.mu.Unlock()

	if ev == nil {
		return
	}

	e.dispatch(ev)
	e.hub.notify()
}

// Skip advances past the pending interval without completing it. Skipping
// while an interval is running is a no-op: the caller must complete or
// reset first.
func (e *Engine) Skip() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	if e.state.Status != session.Idle &&
		e.state.Status != session.Completed {
		e.mu.Unlock()
		return
	}

	e.state = skip(e.state)

	e.persistLocked()

	e.mu.Unlock()

	e.hub.notify()
}

// Pause suspends the running interval, preserving the remaining time.
func (e *Engine) Pause() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	if e.state.Status != session.Running {
		e.mu.Unlock()
		return
	}

	e.state.TimeLeft = e.state.Remaining(e.now())
	e.state.StartTime = time.Time{}
	e.state.EndTime = time.Time{}
	e.state.Status = session.Paused

	e.stopTickLocked()
	e.persistLocked()

	e.mu.Unlock()

	e.hub.notify()
}

// Resume continues a paused interval from its preserved remaining time,
// against a fresh deadline.
func (e *Engine) Resume() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	if e.state.Status != session.Paused {
		e.mu.Unlock()
		return
	}

	now := e.now()

	e.state.StartTime = now
	e.state.EndTime = now.Add(time.Duration(e.state.TimeLeft) * time.Second)
	e.state.Status = session.Running

	e.persistLocked()
	e.startTickLocked()

	e.mu.Unlock()

	e.hub.notify()
}

// Reset discards all progress within the current cycle and returns to the
// initial state under the current settings.
func (e *Engine) Reset() {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	e.state = session.Initial(e.state.Config)

	e.stopTickLocked()
	e.persistLocked()

	e.mu.Unlock()

	e.hub.notify()
}

// Reconfigure merges the provided overrides into the active settings. An
// invalid value rejects the whole merge and keeps the previous settings. A
// running interval keeps its committed deadline; the new durations take
// effect from the next interval.
func (e *Engine) Reconfigure(p config.Partial) error {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	merged, err := e.state.Config.Merge(p)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.state.Config = merged

	if e.state.Status == session.Idle ||
		e.state.Status == session.Completed {
		e.state.TimeLeft = int(e.state.Duration().Seconds())
	}

	e.persistLocked()

	e.mu.Unlock()

	e.hub.notify()

	return nil
}

// RecomputeTimeLeft rederives the cached remaining time from the stored
// deadline. When the deadline has passed it completes the interval instead
// of merely updating the cache. Correctness never depends on how late this
// runs: the comparison is against the absolute deadline.
func (e *Engine) RecomputeTimeLeft(now time.Time) {
	e.tx.Lock()
	defer e.tx.Unlock()

	e.mu.Lock()

	if e.state.Status != session.Running {
		e.mu.Unlock()
		return
	}

	left := e.state.Remaining(now)
	if left <= 0 {
		ev := e.completeLocked(now)
		e.mu.Unlock()

		if ev != nil {
			e.dispatch(ev)
			e.hub.notify()
		}

		return
	}

	changed := left != e.state.TimeLeft
	e.state.TimeLeft = left

	e.mu.Unlock()

	// The deadline itself is already durable; the cache does not need a
	// write per tick.
	if changed {
		e.hub.notify()
	}
}

// completeLocked performs the completion transition. It returns nil when
// the running-status guard fails.
func (e *Engine) completeLocked(now time.Time) *completion {
	if e.state.Status != session.Running {
		return nil
	}

	next, ev := complete(e.state, now)
	e.state = next

	e.stopTickLocked()
	e.persistLocked()

	if ev.finished == session.Focus {
		e.recordHistoryLocked(ev.record)
	}

	return &ev
}

// persistLocked serializes the full state to the durable store. Failures
// are logged and swallowed: the store is a record of the state, not the
// source of truth during a live process.
func (e *Engine) persistLocked() {
	b, err := json.Marshal(e.state)
	if err != nil {
		e.logger.Error("unable to serialize timer state", slog.Any("error", err))
		return
	}

	if err := e.db.SaveTimerState(b); err != nil {
		e.logger.Error("unable to persist timer state", slog.Any("error", err))
	}
}

// recordHistoryLocked appends a finished focus interval to the session
// history for the sync collaborator.
func (e *Engine) recordHistoryLocked(rec session.Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		e.logger.Error(
			"unable to serialize session record",
			slog.Any("error", err),
		)

		return
	}

	err = e.db.AppendSession(timeutil.ToKey(rec.StartTime), b)
	if err != nil {
		e.logger.Error(
			"unable to record finished session",
			slog.Any("error", err),
		)
	}
}

// dispatch fires the completion hooks. Each hook runs exactly once per
// completion transition, after state and persistence are committed.
func (e *Engine) dispatch(ev *completion) {
	if e.notifier != nil {
		e.notifier.SessionEnded(ev.finished, ev.next)
	}

	if ev.finished != session.Focus {
		return
	}

	if e.rewarder != nil {
		points := e.rewarder.Award(ev.finished, ev.record.Duration)

		e.logger.Info(
			"focus session completed",
			slog.Int("points", points),
			slog.Int("duration_mins", ev.record.Duration),
		)
	}

	if e.syncer != nil {
		e.syncer.Record(ev.record)
	}
}
