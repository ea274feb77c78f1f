package notify

import "github.com/ayoisaiah/grove/internal/apperr"

var (
	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}

	errUnknownSound = &apperr.Error{
		Message: "unknown sound: %s",
	}

	errInvalidSessionCmd = &apperr.Error{
		Message: "unable to parse session_cmd option",
	}
)
