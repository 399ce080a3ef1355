// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the application directory under the user config dir.
	DirName = "mic-monitor"

	// DirEnv overrides the config directory when set.
	DirEnv = "MIC_MONITOR_CONFIG_DIR"
)

// File names
const (
	SettingsFileName = "config.yaml"
	PrefsFileName    = "prefs.yaml"
	InstanceFileName = "instance.yaml"
	LogFileName      = "mic-monitor.log"
)

// Dir returns the path to the config directory
// ($XDG_CONFIG_HOME/mic-monitor, or $MIC_MONITOR_CONFIG_DIR).
func Dir() (string, error) {
	if d := os.Getenv(DirEnv); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

// SettingsFile returns the path to config.yaml.
func SettingsFile() (string, error) {
	return fileInDir(SettingsFileName)
}

// PrefsFile returns the path to prefs.yaml.
func PrefsFile() (string, error) {
	return fileInDir(PrefsFileName)
}

// InstanceFile returns the path to instance.yaml.
func InstanceFile() (string, error) {
	return fileInDir(InstanceFileName)
}

// LogFile returns the path of the log used while the terminal UI owns
// the screen.
func LogFile() (string, error) {
	return fileInDir(LogFileName)
}

func fileInDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureDir creates the config directory if it doesn't exist.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
