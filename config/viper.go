package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config fields and their Viper
// counterparts.
const (
	keyFocusMinutes      = "focus_mins"
	keyShortBreakMinutes = "short_break_mins"
	keyLongBreakMinutes  = "long_break_mins"
	keyLongBreakInterval = "long_break_interval"
)

// Load reads the interval settings from the YAML config file, creating the
// file with defaults if it does not exist yet. A config file with invalid
// values is rejected so that the previous on-disk settings can be fixed by
// hand rather than silently replaced.
func Load(configPath string) (Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) &&
			!errors.Is(err, os.ErrNotExist) {
			return Config{}, errReadConfig.Wrap(err)
		}

		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, errWriteConfig.Wrap(err)
		}
	}

	cfg := Config{
		FocusMinutes:           v.GetInt(keyFocusMinutes),
		ShortBreakMinutes:      v.GetInt(keyShortBreakMinutes),
		LongBreakMinutes:       v.GetInt(keyLongBreakMinutes),
		SessionsUntilLongBreak: v.GetInt(keyLongBreakInterval),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes the provided settings back to the config file.
func Save(configPath string, cfg Config) error {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.Set(keyFocusMinutes, cfg.FocusMinutes)
	v.Set(keyShortBreakMinutes, cfg.ShortBreakMinutes)
	v.Set(keyLongBreakMinutes, cfg.LongBreakMinutes)
	v.Set(keyLongBreakInterval, cfg.SessionsUntilLongBreak)

	if err := v.WriteConfigAs(configPath); err != nil {
		return errWriteConfig.Wrap(err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyFocusMinutes, defaultFocusMinutes)
	v.SetDefault(keyShortBreakMinutes, defaultShortBreakMinutes)
	v.SetDefault(keyLongBreakMinutes, defaultLongBreakMinutes)
	v.SetDefault(keyLongBreakInterval, defaultCadence)
}
