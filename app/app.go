// Package app defines the command-line interface for the timer.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

const version = "v0.1.0"

const (
	envNoColor      = "NO_COLOR"
	envGroveNoColor = "GROVE_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the grove app instance.
func Get() *cli.App {
	groveApp := &cli.App{
		Name: "grove",
		Usage: `
		Grove is a focus timer for the command-line. It alternates between
		focus sessions and short breaks, inserting a long break after a
		configurable number of focus sessions.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "reset",
				Usage:  "Discard the current cycle and start over",
				Action: resetAction,
			},
			{
				Name:   "set",
				Usage:  "Update the interval durations and long break cadence",
				Flags:  append([]cli.Flag{}, durationFlags...),
				Action: setAction,
			},
			{
				Name:   "status",
				Usage:  "Report the status of a timer running in another terminal",
				Action: statusAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "sound",
				Usage: "Play `SOUND` when a session ends ('off' to disable)",
			},
			&cli.StringFlag{
				Name:  "session-cmd",
				Usage: "Execute `COMMAND` after each session",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output",
			},
		}, durationFlags...),
		Action: defaultAction,
		Before: beforeAction,
	}

	return groveApp
}

var durationFlags = []cli.Flag{
	&cli.UintFlag{
		Name:    "focus",
		Aliases: []string{"f"},
		Usage:   "Focus duration in `MINUTES`",
	},
	&cli.UintFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration in `MINUTES`",
	},
	&cli.UintFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration in `MINUTES`",
	},
	&cli.UintFlag{
		Name:  "long-break-interval",
		Usage: "Focus sessions before a long break (`NUMBER`)",
	},
}

func beforeAction(ctx *cli.Context) error {
	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if GROVE_NO_COLOR is set
	if _, exists := os.LookupEnv(envGroveNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	initLogging()

	return nil
}
