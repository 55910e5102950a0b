package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/msutils/internal/fileutil"
)

// HomeEnv names the environment variable overriding the msutils home.
const HomeEnv = "MSUTILS_HOME"

// GetHome returns the msutils home directory
// Priority order:
//  1. MSUTILS_HOME environment variable (if set)
//  2. ~/.msutils
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv(HomeEnv)
	if home == "" {
		home = filepath.Join("~", ".msutils")
	}

	home, err := fileutil.ExpandHome(home)
	if err != nil {
		return "", fmt.Errorf("resolve msutils home: %w", err)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create msutils home directory: %w", err)
	}
	return home, nil
}

// GetConfigPath returns the default configuration file path:
// $MSUTILS_HOME/config.yaml
func GetConfigPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// GetSendLockPath returns the lock file held while uploading.
func GetSendLockPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "send.lock"), nil
}

// HistoryDBPath returns the upload history database path: the configured
// history_db, or $MSUTILS_HOME/history.db.
func (c *Config) HistoryDBPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "history.db"), nil
}
