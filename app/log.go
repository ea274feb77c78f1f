package app

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/grove/config"
)

// initLogging routes slog output to a rotated log file in the data
// directory so the TUI never has to share the terminal with diagnostics.
func initLogging() {
	w := &lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	logger := slog.New(slog.NewJSONHandler(w, nil))

	slog.SetDefault(logger)
}
