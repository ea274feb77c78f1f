package timer

import (
	"time"

	"github.com/ayoisaiah/grove/internal/session"
)

// completion describes a finished interval and the interval that follows
// it. It carries everything the completion hooks need so they can run after
// the state change has been committed.
type completion struct {
	record   session.Record
	finished session.Type
	next     session.Type
}

// nextType derives the interval that follows the current one. A long break
// follows a focus interval iff the session number has reached the
// configured cadence, evaluated before the number is advanced for the next
// cycle.
func nextType(st session.State) session.Type {
	switch st.Type {
	case session.Focus:
		if st.Number%st.Config.SessionsUntilLongBreak == 0 {
			return session.LongBreak
		}

		return session.ShortBreak
	case session.ShortBreak, session.LongBreak:
		return session.Focus
	}

	return session.Focus
}

// complete transitions a running interval to its completed successor. The
// caller is responsible for the running-status guard.
func complete(st session.State, now time.Time) (session.State, completion) {
	ev := completion{
		finished: st.Type,
		next:     nextType(st),
		record: session.Record{
			StartTime: st.StartTime,
			EndTime:   now,
			Name:      st.Type,
			Duration:  int(st.Duration().Minutes()),
		},
	}

	if st.Type == session.Focus {
		st.Completed++
		st.Number++
	}

	st.Type = ev.next
	st.Status = session.Completed
	st.StartTime = time.Time{}
	st.EndTime = time.Time{}
	st.TimeLeft = int(st.Duration().Seconds())

	return st, ev
}

// skip advances past the pending interval without recording a completion.
// The cadence cursor moves exactly as it does for a real completion, but
// the completed-sessions counter is untouched and the successor starts out
// idle.
func skip(st session.State) session.State {
	next := nextType(st)

	if st.Type == session.Focus {
		st.Number++
	}

	st.Type = next
	st.Status = session.Idle
	st.StartTime = time.Time{}
	st.EndTime = time.Time{}
	st.TimeLeft = int(st.Duration().Seconds())

	return st
}
