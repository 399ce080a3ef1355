package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

// DefaultSettingsTemplate is written when no config file exists yet.
const DefaultSettingsTemplate = `colors:
  # Mic color when audio is detected above the noise floor
  active: "` + models.DefaultActiveColor + `"
  # Mic color when silent or muted
  inactive: "` + models.DefaultInactiveColor + `"
  # Color for the monitoring dot badge and the mute slash
  accent: "` + models.DefaultAccentColor + `"

audio:
  # RMS threshold (0-32768). Lower = more sensitive. Default is ~-38 dB.
  threshold: 400

monitor:
  # Loopback latency passed to module-loopback, in milliseconds
  latency_msec: 1
`

// LoadSettings loads config.yaml from the config directory.
// See LoadSettingsFrom for the fallback rules.
func LoadSettings() (*models.Settings, error) {
	path, err := SettingsFile()
	if err != nil {
		return models.NewSettings(), err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads settings from path. The returned settings are never
// nil: a missing file is created from DefaultSettingsTemplate, an unreadable
// file yields the defaults, and each malformed value falls back to its
// default. The error, if any, lists what was ignored and is meant to be
// logged as a warning.
func LoadSettingsFrom(path string) (*models.Settings, error) {
	if !FileExists(path) {
		if err := writeDefaultSettings(path); err != nil {
			return models.NewSettings(), err
		}
		return models.NewSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.NewSettings(), fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings parses config.yaml content. Settings are never nil.
func ParseSettings(data []byte) (*models.Settings, error) {
	s := models.NewSettings()

	var f models.SettingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var errs []error
	for _, opt := range []struct {
		key string
		raw string
		dst *color.RGBA
	}{
		{"active", f.Colors.Active, &s.Colors.Active},
		{"inactive", f.Colors.Inactive, &s.Colors.Inactive},
		{"accent", f.Colors.Accent, &s.Colors.Accent},
	} {
		if strings.TrimSpace(opt.raw) == "" {
			continue
		}
		c, err := models.ParseHexColor(opt.raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("colors.%s: %w", opt.key, err))
			continue
		}
		*opt.dst = c
	}

	if raw := strings.TrimSpace(f.Audio.Threshold); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("audio.threshold: invalid number %q", raw))
		case v < 0:
			errs = append(errs, fmt.Errorf("audio.threshold: must not be negative, got %v", v))
		default:
			s.Audio.Threshold = v
		}
	}

	if raw := strings.TrimSpace(f.Monitor.LatencyMsec); raw != "" {
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("monitor.latency_msec: invalid integer %q", raw))
		case v < 1:
			errs = append(errs, fmt.Errorf("monitor.latency_msec: must be at least 1, got %d", v))
		default:
			s.Monitor.LatencyMsec = v
		}
	}

	return s, errors.Join(errs...)
}

func writeDefaultSettings(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(DefaultSettingsTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
