package app

import (
	"log/slog"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/grove/config"
	"github.com/ayoisaiah/grove/notify"
	"github.com/ayoisaiah/grove/reward"
	"github.com/ayoisaiah/grove/store"
	"github.com/ayoisaiah/grove/timer"
	"github.com/ayoisaiah/grove/tui"
)

// partialFromFlags collects the duration overrides given on the command
// line.
func partialFromFlags(ctx *cli.Context) config.Partial {
	var p config.Partial

	if v := ctx.Uint("focus"); v > 0 {
		mins := int(v)
		p.FocusMinutes = &mins
	}

	if v := ctx.Uint("short-break"); v > 0 {
		mins := int(v)
		p.ShortBreakMinutes = &mins
	}

	if v := ctx.Uint("long-break"); v > 0 {
		mins := int(v)
		p.LongBreakMinutes = &mins
	}

	if v := ctx.Uint("long-break-interval"); v > 0 {
		num := int(v)
		p.SessionsUntilLongBreak = &num
	}

	return p
}

func newEngine(ctx *cli.Context, db store.DB) (*timer.Engine, error) {
	cfg, err := config.Load(config.ConfigFilePath())
	if err != nil {
		return nil, err
	}

	sound := ctx.String("sound")
	if sound == "off" {
		sound = ""
	}

	eng, err := timer.New(db, cfg,
		timer.WithNotifier(
			notify.NewDesktop(sound, ctx.String("session-cmd"), slog.Default()),
		),
		timer.WithRewarder(reward.NewFlatRate()),
	)
	if err != nil {
		return nil, err
	}

	if p := partialFromFlags(ctx); !p.IsZero() {
		if err := eng.Reconfigure(p); err != nil {
			return nil, err
		}
	}

	return eng, nil
}

// defaultAction starts (or resumes) the timer and attaches the interactive
// view.
func defaultAction(ctx *cli.Context) error {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close()
	}()

	eng, err := newEngine(ctx, db)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(eng), tea.WithReportFocus())

	unsubscribe := eng.Subscribe(func() {
		if err := writeStatusFile(eng.State()); err != nil {
			slog.Error("unable to write status file", slog.Any("error", err))
		}

		p.Send(tui.RefreshMsg{})
	})
	defer unsubscribe()

	_ = writeStatusFile(eng.State())

	_, err = p.Run()

	_ = os.Remove(config.StatusFilePath())

	return err
}

// resetAction discards the current cycle.
func resetAction(ctx *cli.Context) error {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close()
	}()

	eng, err := newEngine(ctx, db)
	if err != nil {
		return err
	}

	eng.Reset()

	pterm.Success.Println("timer has been reset")

	return nil
}

// setAction updates the configured durations and cadence, both in the
// config file and in any persisted timer state.
func setAction(ctx *cli.Context) error {
	p := partialFromFlags(ctx)
	if p.IsZero() {
		pterm.Info.Println("nothing to update")
		return nil
	}

	cfg, err := config.Load(config.ConfigFilePath())
	if err != nil {
		return err
	}

	merged, err := cfg.Merge(p)
	if err != nil {
		return err
	}

	if err := config.Save(config.ConfigFilePath(), merged); err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer func() {
		_ = db.Close()
	}()

	eng, err := timer.New(db, merged)
	if err != nil {
		return err
	}

	if err := eng.Reconfigure(p); err != nil {
		return err
	}

	pterm.Success.Println("settings have been updated")

	return nil
}

// statusAction reports the status of a timer running in another terminal.
func statusAction(_ *cli.Context) error {
	return reportStatus()
}

// editConfigAction opens the config file in the user's editor.
func editConfigAction(_ *cli.Context) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "nano"
	}

	cmd := exec.Command(editor, config.ConfigFilePath())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
