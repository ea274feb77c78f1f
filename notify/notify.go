// Package notify delivers desktop notifications, completion sounds, and the
// user-configured post-session command when an interval ends.
package notify

import (
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/internal/session"
)

var titles = map[session.Type]string{
	session.Focus:      "Focus session",
	session.ShortBreak: "Short break",
	session.LongBreak:  "Long break",
}

var messages = map[session.Type]string{
	session.Focus:      "It's time to refocus and get back to work!",
	session.ShortBreak: "Take a breather!",
	session.LongBreak:  "Take a well-deserved long break!",
}

// Desktop announces completion transitions on the local machine. All
// delivery is fire-and-forget: failures are logged, never surfaced.
type Desktop struct {
	logger *slog.Logger
	// Sound is the name or path of the sound played on completion. Empty
	// disables playback.
	Sound string
	// SessionCmd is an optional shell command executed after each
	// completion.
	SessionCmd string
}

func NewDesktop(sound, sessionCmd string, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}

	return &Desktop{
		Sound:      sound,
		SessionCmd: sessionCmd,
		logger:     logger,
	}
}

// SessionEnded sends a desktop notification and plays a notification
// sound.
func (d *Desktop) SessionEnded(finished, next session.Type) {
	title := titles[finished] + " is finished"
	msg := messages[next]

	// pathToIcon will be an empty string if the file is not found
	pathToIcon, _ := xdg.SearchDataFile(
		filepath.Join(config.Dir(), "icon.png"),
	)

	err := beeep.Notify(title, msg, pathToIcon)
	if err != nil {
		d.logger.Error(
			"unable to display notification",
			slog.Any("error", err),
		)
	}

	if d.Sound != "" {
		if err := d.playSound(d.Sound); err != nil {
			d.logger.Error("unable to play sound", slog.Any("error", err))
		}
	}

	if err := d.runSessionCmd(d.SessionCmd); err != nil {
		d.logger.Error("unable to run session_cmd", slog.Any("error", err))
	}
}

// runSessionCmd executes the specified command.
func (d *Desktop) runSessionCmd(sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return errInvalidSessionCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}
