package notify

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/ayoisaiah/grove/config"
)

// prepSoundStream returns an audio stream for the specified sound. A bare
// name without an extension resolves to an OGG file in the data directory.
func prepSoundStream(sound string) (beep.StreamSeekCloser, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	if filepath.Ext(sound) == "" {
		sound += ".ogg"
	}

	if !filepath.IsAbs(sound) {
		p, err := xdg.SearchDataFile(
			filepath.Join(config.Dir(), "sounds", sound),
		)
		if err != nil {
			return nil, errUnknownSound.Fmt(sound)
		}

		sound = p
	}

	f, err := os.Open(sound)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	switch filepath.Ext(sound) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		return nil, errInvalidSoundFormat
	}

	if err != nil {
		return nil, err
	}

	bufferSize := 10

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Duration(int(time.Second)/bufferSize)),
	)
	if err != nil {
		return nil, err
	}

	err = stream.Seek(0)
	if err != nil {
		return nil, err
	}

	return stream, nil
}

// playSound plays the completion sound and blocks until it finishes.
func (d *Desktop) playSound(sound string) error {
	stream, err := prepSoundStream(sound)
	if err != nil {
		return err
	}

	done := make(chan bool)

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		done <- true
	})))

	<-done

	stream.Close()

	speaker.Clear()
	speaker.Close()

	return nil
}
