package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pterm/pterm"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/session"
	"github.com/ayoisaiah/grove/internal/timeutil"
	"github.com/ayoisaiah/grove/internal/ui"
)

// Status is the snapshot written for external consumers (status bars,
// prompts) after every committed transition.
type Status struct {
	EndTime  time.Time      `json:"end_time"`
	Name     session.Type   `json:"name"`
	Status   session.Status `json:"status"`
	Number   int            `json:"session_number"`
	Cadence  int            `json:"long_break_interval"`
	TimeLeft int            `json:"time_left_seconds"`
}

func writeStatusFile(st session.State) (err error) {
	s := Status{
		Name:     st.Type,
		Status:   st.Status,
		Number:   st.Number,
		Cadence:  st.Config.SessionsUntilLongBreak,
		EndTime:  st.EndTime,
		TimeLeft: st.TimeLeft,
	}

	statusFile, err := os.Create(config.StatusFilePath())
	if err != nil {
		return err
	}

	defer func() {
		ferr := statusFile.Close()
		if ferr != nil {
			err = ferr
		}
	}()

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(statusFile)

	_, err = writer.Write(b)
	if err != nil {
		return err
	}

	return writer.Flush()
}

// reportStatus reports the status of a timer running in another process.
func reportStatus() error {
	dbFilePath := config.DBFilePath()
	statusFilePath := config.StatusFilePath()

	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(dbFilePath, fileMode, &bolt.Options{
		Timeout: 100 * time.Millisecond,
	})
	// This means grove is not running, so no status to report
	if err == nil {
		return db.Close()
	}

	if !errors.Is(err, bolt.ErrTimeout) {
		return err
	}

	fileBytes, err := os.ReadFile(statusFilePath)
	if err != nil {
		// missing file should not return an error
		return nil
	}

	var s Status

	err = json.Unmarshal(fileBytes, &s)
	if err != nil {
		return err
	}

	left := s.TimeLeft
	if s.Status == session.Running {
		left = timeutil.CeilSeconds(time.Until(s.EndTime))
		if left < 0 {
			left = 0
		}
	}

	var text string

	switch s.Name {
	case session.Focus:
		cycle := (s.Number-1)%s.Cadence + 1
		text = fmt.Sprintf(ui.Green("[Focus %d/%d]"), cycle, s.Cadence)
	case session.ShortBreak:
		text = ui.Blue("[Short break]")
	case session.LongBreak:
		text = ui.Magenta("[Long break]")
	}

	mins, secs := timeutil.SecsToMinsAndSecs(left)

	pterm.Printfln("%s: %s", text, ui.Highlight(fmt.Sprintf("%02d:%02d", mins, secs)))

	return nil
}
