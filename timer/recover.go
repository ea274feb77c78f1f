package timer

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/session"
	"github.com/ayoisaiah/grove/store"
)

// recoverState reconstructs the session state from the durable store.
//
// An absent or unparsable record yields a fresh initial state. A record
// that was running when the process died is reconciled against the clock:
// if its deadline has passed, exactly one completion is synthesized (never
// a back-fill of multiple missed cycles) and the returned completion event
// is non-nil; if the deadline is still ahead, the interval resumes running
// with its remaining time rederived from the deadline. Anything else is
// restored verbatim.
func recoverState(
	db store.DB,
	cfg config.Config,
	now time.Time,
	logger *slog.Logger,
) (session.State, *completion) {
	b, err := db.GetTimerState()
	if err != nil {
		logger.Error(
			"unable to read persisted timer state",
			slog.Any("error", err),
		)

		return session.Initial(cfg), nil
	}

	if b == nil {
		return session.Initial(cfg), nil
	}

	var st session.State

	if err := json.Unmarshal(b, &st); err != nil {
		logger.Warn(
			"discarding corrupt timer record",
			slog.Any("error", err),
		)

		discardRecord(db, logger)

		return session.Initial(cfg), nil
	}

	if !st.Valid() || st.Config.Validate() != nil {
		logger.Warn("discarding inconsistent timer record")

		discardRecord(db, logger)

		return session.Initial(cfg), nil
	}

	if st.Status != session.Running {
		return st, nil
	}

	if st.EndTime.After(now) {
		st.TimeLeft = st.Remaining(now)

		return st, nil
	}

	// The deadline passed while the process was away. Settle the interval
	// at its recorded deadline rather than the current clock.
	next, ev := complete(st, st.EndTime)

	logger.Info(
		"completed overdue session on recovery",
		slog.String("finished", string(ev.finished)),
		slog.String("next", string(ev.next)),
	)

	return next, &ev
}

func discardRecord(db store.DB, logger *slog.Logger) {
	if err := db.DeleteTimerState(); err != nil {
		logger.Error(
			"unable to discard timer record",
			slog.Any("error", err),
		)
	}
}
