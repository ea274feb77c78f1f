package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

var (
	configDir      = "grove"
	configFileName = "config.yml"
	dbFileName     = "grove.db"
	statusFileName = "status.json"
	logFileName    = "grove.log"
	dbFilePath     string
	configFilePath string
	statusFilePath string
	logFilePath    string
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func StatusFilePath() string {
	return statusFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the config, database, status, and log file
// locations. The GROVE_ENV variable switches to suffixed file names so that
// development and testing never touch real user data.
func InitializePaths() {
	groveEnv := strings.TrimSpace(os.Getenv("GROVE_ENV"))
	if groveEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", groveEnv)
		dbFileName = fmt.Sprintf("grove_%s.db", groveEnv)
		statusFileName = fmt.Sprintf("status_%s.json", groveEnv)
		logFileName = fmt.Sprintf("grove_%s.log", groveEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath, err = xdg.DataFile(filepath.Join(configDir, dbFileName))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	statusFilePath, err = xdg.DataFile(
		filepath.Join(configDir, statusFileName),
	)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	logFilePath, err = xdg.DataFile(
		filepath.Join(configDir, "log", logFileName),
	)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
