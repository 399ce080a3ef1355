package models

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Default option values. They match the template written on first run.
const (
	DefaultActiveColor   = "#50DC50"
	DefaultInactiveColor = "#B4B4B4"
	DefaultAccentColor   = "#DC3C3C"
	DefaultThreshold     = 400.0 // RMS over int16 samples, roughly -38 dB
	DefaultLatencyMsec   = 1
)

// ColorsConfig holds the icon palette.
type ColorsConfig struct {
	Active   color.RGBA // mic body while audio is detected and not muted
	Inactive color.RGBA // mic body while silent or muted
	Accent   color.RGBA // mute slash and monitoring badge
}

// AudioConfig holds activity detection settings.
type AudioConfig struct {
	Threshold float64
}

// MonitorConfig holds loopback module settings.
type MonitorConfig struct {
	LatencyMsec int
}

// Settings is the effective application configuration.
// It is loaded once at startup and never changes afterward.
type Settings struct {
	Colors  ColorsConfig
	Audio   AudioConfig
	Monitor MonitorConfig
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Colors: ColorsConfig{
			Active:   MustParseHexColor(DefaultActiveColor),
			Inactive: MustParseHexColor(DefaultInactiveColor),
			Accent:   MustParseHexColor(DefaultAccentColor),
		},
		Audio: AudioConfig{
			Threshold: DefaultThreshold,
		},
		Monitor: MonitorConfig{
			LatencyMsec: DefaultLatencyMsec,
		},
	}
}

// SettingsFile mirrors config.yaml on disk. Every value is kept as a raw
// string so that one malformed option does not discard the others.
type SettingsFile struct {
	Colors struct {
		Active   string `yaml:"active"`
		Inactive string `yaml:"inactive"`
		Accent   string `yaml:"accent"`
	} `yaml:"colors"`
	Audio struct {
		Threshold string `yaml:"threshold"`
	} `yaml:"audio"`
	Monitor struct {
		LatencyMsec string `yaml:"latency_msec"`
	} `yaml:"monitor"`
}

// ParseHexColor parses "#RRGGBB" (leading '#' optional) into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants.
func MustParseHexColor(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HexColor formats c as "#RRGGBB".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
