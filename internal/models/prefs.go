package models

// Prefs holds user preferences toggled from the tray menu.
// This corresponds to prefs.yaml in the config directory.
type Prefs struct {
	Version         int  `yaml:"version"`
	LeftClickToggle bool `yaml:"left_click_toggle"`
}

// NewPrefs returns the defaults. Left-click toggling is off so that an
// accidental click never starts routing the microphone to the speakers.
func NewPrefs() *Prefs {
	return &Prefs{Version: 1}
}
