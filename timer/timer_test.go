package timer

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/session"
)

type DBMock struct {
	timerState []byte
	sessions   map[string][]byte
	saveCalls  int
	failWrites bool
}

func (d *DBMock) GetTimerState() ([]byte, error) {
	return d.timerState, nil
}

func (d *DBMock) SaveTimerState(value []byte) error {
	if d.failWrites {
		return errGroveRunningStub
	}

	d.saveCalls++
	d.timerState = value

	return nil
}

func (d *DBMock) DeleteTimerState() error {
	d.timerState = nil
	return nil
}

func (d *DBMock) AppendSession(key, value []byte) error {
	if d.sessions == nil {
		d.sessions = make(map[string][]byte)
	}

	d.sessions[string(key)] = value

	return nil
}

func (d *DBMock) Open() error { return nil }

func (d *DBMock) Close() error { return nil }

type errStub string

func (e errStub) Error() string { return string(e) }

const errGroveRunningStub = errStub("store unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type rewarderMock struct {
	calls   int
	minutes []int
}

func (r *rewarderMock) Award(_ session.Type, minutes int) int {
	r.calls++
	r.minutes = append(r.minutes, minutes)

	return minutes
}

type syncerMock struct {
	records []session.Record
}

func (s *syncerMock) Record(rec session.Record) {
	s.records = append(s.records, rec)
}

func testConfig() config.Config {
	return config.Config{
		FocusMinutes:           25,
		ShortBreakMinutes:      5,
		LongBreakMinutes:       15,
		SessionsUntilLongBreak: 4,
	}
}

func testEngine(t *testing.T, opts ...Option) (*Engine, *fakeClock, *DBMock) {
	t.Helper()

	clk := &fakeClock{
		now: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
	db := &DBMock{}

	opts = append([]Option{
		WithClock(clk.Now),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)

	eng, err := New(db, testConfig(), opts...)
	if err != nil {
		t.Fatal(err)
	}

	return eng, clk, db
}

// finishInterval runs the current pending interval to its deadline.
func finishInterval(t *testing.T, eng *Engine, clk *fakeClock) {
	t.Helper()

	eng.Start()

	st := eng.State()
	if !st.Running() {
		t.Fatal("expected interval to be running after Start")
	}

	clk.Advance(st.Duration())
	eng.RecomputeTimeLeft(clk.Now())
}

func TestStart(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	st := eng.State()

	if st.Status != session.Running {
		t.Fatalf("expected status %q, got %q", session.Running, st.Status)
	}

	wantEnd := clk.Now().Add(25 * time.Minute)
	if !st.EndTime.Equal(wantEnd) {
		t.Errorf("expected deadline %v, got %v", wantEnd, st.EndTime)
	}

	if st.TimeLeft != 25*60 {
		t.Errorf("expected %d seconds left, got %d", 25*60, st.TimeLeft)
	}
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	before := eng.State()

	clk.Advance(10 * time.Minute)
	eng.Start()

	after := eng.State()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("state changed on double start:\n%s", diff)
	}
}

func TestDeadlineCorrectness(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	clk.Advance(25 * time.Minute)
	eng.RecomputeTimeLeft(clk.Now())

	st := eng.State()

	if st.Status != session.Completed {
		t.Fatalf("expected status %q, got %q", session.Completed, st.Status)
	}

	if st.Type != session.ShortBreak {
		t.Errorf("expected next type %q, got %q", session.ShortBreak, st.Type)
	}
}

func TestRecomputeUpdatesCache(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	clk.Advance(5 * time.Minute)
	eng.RecomputeTimeLeft(clk.Now())

	st := eng.State()

	if st.TimeLeft != 20*60 {
		t.Errorf("expected %d seconds left, got %d", 20*60, st.TimeLeft)
	}

	if st.Status != session.Running {
		t.Errorf("expected status %q, got %q", session.Running, st.Status)
	}
}

func TestCadenceDeterminism(t *testing.T) {
	eng, clk, _ := testEngine(t)

	want := []session.Type{
		session.ShortBreak,
		session.ShortBreak,
		session.ShortBreak,
		session.LongBreak,
		session.ShortBreak,
	}

	var got []session.Type

	for range want {
		// finish a focus interval, note the break it produced, then finish
		// the break
		finishInterval(t, eng, clk)
		got = append(got, eng.State().Type)

		finishInterval(t, eng, clk)

		if next := eng.State().Type; next != session.Focus {
			t.Fatalf("expected focus after a break, got %q", next)
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("break cadence mismatch:\n%s", diff)
	}
}

func TestCadenceIgnoresSkippedBreaks(t *testing.T) {
	eng, clk, _ := testEngine(t)

	want := []session.Type{
		session.ShortBreak,
		session.ShortBreak,
		session.ShortBreak,
		session.LongBreak,
	}

	var got []session.Type

	for range want {
		finishInterval(t, eng, clk)
		got = append(got, eng.State().Type)

		// skip the break instead of sitting through it
		eng.Skip()
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("break cadence mismatch:\n%s", diff)
	}
}

func TestExampleScenario(t *testing.T) {
	eng, clk, _ := testEngine(t)

	breaks := make([]session.Type, 0, 4)

	for i := 0; i < 4; i++ {
		finishInterval(t, eng, clk)
		breaks = append(breaks, eng.State().Type)

		finishInterval(t, eng, clk)
	}

	want := []session.Type{
		session.ShortBreak,
		session.ShortBreak,
		session.ShortBreak,
		session.LongBreak,
	}

	if diff := cmp.Diff(want, breaks); diff != "" {
		t.Errorf("break sequence mismatch:\n%s", diff)
	}

	if got := eng.State().Completed; got != 4 {
		t.Errorf("expected 4 completed sessions, got %d", got)
	}
}

func TestIdempotentComplete(t *testing.T) {
	eng, _, _ := testEngine(t)

	before := eng.State()

	eng.Complete()
	eng.Complete()

	after := eng.State()

	if after.Completed != before.Completed {
		t.Errorf(
			"completed count changed from %d to %d",
			before.Completed,
			after.Completed,
		)
	}

	if after.Number != before.Number {
		t.Errorf(
			"session number changed from %d to %d",
			before.Number,
			after.Number,
		)
	}
}

func TestSkipWhileRunningIsNoOp(t *testing.T) {
	eng, _, _ := testEngine(t)

	eng.Start()

	before := eng.State()

	eng.Skip()

	after := eng.State()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("skip changed a running interval:\n%s", diff)
	}
}

func TestSkipLeavesCompletedCountAlone(t *testing.T) {
	eng, _, _ := testEngine(t)

	eng.Skip()

	st := eng.State()

	if st.Completed != 0 {
		t.Errorf("expected 0 completed sessions, got %d", st.Completed)
	}

	if st.Type != session.ShortBreak {
		t.Errorf("expected type %q, got %q", session.ShortBreak, st.Type)
	}

	if st.Number != 2 {
		t.Errorf("expected session number 2, got %d", st.Number)
	}

	if st.Status != session.Idle {
		t.Errorf("expected status %q, got %q", session.Idle, st.Status)
	}
}

func TestPauseResume(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	clk.Advance(10 * time.Minute)
	eng.Pause()

	st := eng.State()

	if st.Status != session.Paused {
		t.Fatalf("expected status %q, got %q", session.Paused, st.Status)
	}

	if st.TimeLeft != 15*60 {
		t.Errorf("expected %d seconds left, got %d", 15*60, st.TimeLeft)
	}

	if !st.StartTime.IsZero() || !st.EndTime.IsZero() {
		t.Error("expected timestamps to be cleared while paused")
	}

	// a long suspension while paused must not consume the remainder
	clk.Advance(3 * time.Hour)
	eng.Resume()

	st = eng.State()

	wantEnd := clk.Now().Add(15 * time.Minute)
	if !st.EndTime.Equal(wantEnd) {
		t.Errorf("expected deadline %v, got %v", wantEnd, st.EndTime)
	}

	clk.Advance(15 * time.Minute)
	eng.RecomputeTimeLeft(clk.Now())

	if got := eng.State().Status; got != session.Completed {
		t.Errorf("expected status %q, got %q", session.Completed, got)
	}
}

func TestReset(t *testing.T) {
	eng, clk, _ := testEngine(t)

	finishInterval(t, eng, clk)
	finishInterval(t, eng, clk)

	eng.Reset()

	st := eng.State()
	want := session.Initial(testConfig())

	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("reset state mismatch:\n%s", diff)
	}
}

func TestConfigIsolation(t *testing.T) {
	eng, clk, _ := testEngine(t)

	eng.Start()

	deadline := eng.State().EndTime

	focus := 50
	err := eng.Reconfigure(config.Partial{FocusMinutes: &focus})
	if err != nil {
		t.Fatal(err)
	}

	if got := eng.State().EndTime; !got.Equal(deadline) {
		t.Errorf(
			"reconfigure moved a committed deadline from %v to %v",
			deadline,
			got,
		)
	}

	// finish the focus interval and the break, then start the next focus
	// interval under the new settings
	clk.Advance(25 * time.Minute)
	eng.RecomputeTimeLeft(clk.Now())
	eng.Skip()
	eng.Start()

	st := eng.State()

	wantEnd := clk.Now().Add(50 * time.Minute)
	if !st.EndTime.Equal(wantEnd) {
		t.Errorf("expected deadline %v, got %v", wantEnd, st.EndTime)
	}
}

func TestReconfigureWhileIdleRecomputesTimeLeft(t *testing.T) {
	eng, _, _ := testEngine(t)

	focus := 50
	err := eng.Reconfigure(config.Partial{FocusMinutes: &focus})
	if err != nil {
		t.Fatal(err)
	}

	if got := eng.State().TimeLeft; got != 50*60 {
		t.Errorf("expected %d seconds left, got %d", 50*60, got)
	}
}

func TestReconfigureRejectsInvalidValues(t *testing.T) {
	eng, _, _ := testEngine(t)

	before := eng.State().Config

	table := []struct {
		name string
		p    config.Partial
	}{
		{"zero focus", config.Partial{FocusMinutes: intPtr(0)}},
		{"negative break", config.Partial{ShortBreakMinutes: intPtr(-5)}},
		{"cadence below two", config.Partial{SessionsUntilLongBreak: intPtr(1)}},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			if err := eng.Reconfigure(tc.p); err == nil {
				t.Fatal("expected reconfiguration to be rejected")
			}

			if diff := cmp.Diff(before, eng.State().Config); diff != "" {
				t.Errorf("config changed after rejected merge:\n%s", diff)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestCompletionHooks(t *testing.T) {
	rew := &rewarderMock{}
	syn := &syncerMock{}

	eng, clk, db := testEngine(t, WithRewarder(rew), WithSyncer(syn))

	// one focus interval and one break interval
	finishInterval(t, eng, clk)
	finishInterval(t, eng, clk)

	if rew.calls != 1 {
		t.Errorf("expected 1 reward call, got %d", rew.calls)
	}

	if len(rew.minutes) == 1 && rew.minutes[0] != 25 {
		t.Errorf("expected reward for 25 minutes, got %d", rew.minutes[0])
	}

	if len(syn.records) != 1 {
		t.Fatalf("expected 1 sync record, got %d", len(syn.records))
	}

	if syn.records[0].Name != session.Focus {
		t.Errorf("expected a focus record, got %q", syn.records[0].Name)
	}

	if len(db.sessions) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(db.sessions))
	}
}

func TestSubscribers(t *testing.T) {
	eng, _, _ := testEngine(t)

	var notified int

	unsubscribe := eng.Subscribe(func() {
		notified++
	})

	eng.Start()

	if notified != 1 {
		t.Fatalf("expected 1 notification, got %d", notified)
	}

	unsubscribe()

	eng.Pause()

	if notified != 1 {
		t.Errorf("expected no notification after unsubscribe, got %d", notified)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	eng, _, _ := testEngine(t)

	var first, second int

	var unsubSecond func()

	eng.Subscribe(func() {
		first++
		// removing another observer mid-pass must not affect this pass
		unsubSecond()
	})

	unsubSecond = eng.Subscribe(func() {
		second++
	})

	eng.Start()

	if first != 1 || second != 1 {
		t.Errorf(
			"expected both observers to run once, got first=%d second=%d",
			first,
			second,
		)
	}

	eng.Pause()

	if second != 1 {
		t.Errorf("expected removed observer to stay removed, got %d", second)
	}
}

func TestNoOpTransitionsDoNotNotify(t *testing.T) {
	eng, _, _ := testEngine(t)

	var notified int

	eng.Subscribe(func() {
		notified++
	})

	eng.Complete() // nothing running
	eng.Pause()    // nothing running
	eng.Resume()   // nothing paused

	if notified != 0 {
		t.Errorf("expected no notifications for no-ops, got %d", notified)
	}
}

func TestWakeSettlesOverdueInterval(t *testing.T) {
	eng, clk, db := testEngine(t)

	eng.Start()

	var persistedAtNotify session.Status

	eng.Subscribe(func() {
		var st session.State
		if err := json.Unmarshal(db.timerState, &st); err == nil {
			persistedAtNotify = st.Status
		}
	})

	// the machine slept well past the deadline, so no ticks fired
	clk.Advance(2 * time.Hour)
	eng.Wake()

	st := eng.State()

	if st.Status != session.Completed {
		t.Fatalf("expected status %q, got %q", session.Completed, st.Status)
	}

	if st.Completed != 1 {
		t.Errorf("expected 1 completed session, got %d", st.Completed)
	}

	// the observer ran after the completed state was persisted
	if persistedAtNotify != session.Completed {
		t.Errorf(
			"expected persisted status %q at notify time, got %q",
			session.Completed,
			persistedAtNotify,
		)
	}

	// a second wake-up finds nothing running
	eng.Wake()

	if got := eng.State().Completed; got != 1 {
		t.Errorf("second wake completed the interval again, count %d", got)
	}
}

func TestNotificationPassesDoNotInterleave(t *testing.T) {
	eng, _, _ := testEngine(t)

	var (
		inPass  atomic.Int32
		overlap atomic.Bool
		once    sync.Once
	)

	entered := make(chan struct{})
	release := make(chan struct{})

	eng.Subscribe(func() {
		if inPass.Add(1) > 1 {
			overlap.Store(true)
		}

		once.Do(func() {
			close(entered)
			<-release
		})

		inPass.Add(-1)
	})

	started := make(chan struct{})

	go func() {
		eng.Start()
		close(started)
	}()

	<-entered

	paused := make(chan struct{})

	go func() {
		eng.Pause()
		close(paused)
	}()

	// the pause transition must wait for the start pass to finish
	select {
	case <-paused:
		t.Fatal("pause committed while the start notification was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	<-started
	<-paused

	if overlap.Load() {
		t.Error("observer passes from two transitions ran concurrently")
	}

	if got := eng.State().Status; got != session.Paused {
		t.Errorf("expected status %q, got %q", session.Paused, got)
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	eng, _, db := testEngine(t)

	db.failWrites = true

	eng.Start()

	if got := eng.State().Status; got != session.Running {
		t.Errorf(
			"expected in-memory state to remain authoritative, got status %q",
			got,
		)
	}
}
