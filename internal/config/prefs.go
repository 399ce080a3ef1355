package config

import (
	"github.com/mic-monitor/mic-monitor/internal/models"
)

// LoadPrefs loads preferences from prefs.yaml.
// If the file doesn't exist, returns default preferences.
func LoadPrefs() (*models.Prefs, error) {
	path, err := PrefsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewPrefs)
}

// SavePrefs saves preferences to prefs.yaml.
func SavePrefs(prefs *models.Prefs) error {
	path, err := PrefsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, prefs)
}
