package config

import "github.com/ayoisaiah/grove/internal/apperr"

var (
	errInvalidDuration = &apperr.Error{
		Message: "%s duration must be a positive number of minutes, got %d",
	}

	errInvalidCadence = &apperr.Error{
		Message: "long break cadence must be at least %[2]d sessions, got %[1]d",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}
)
