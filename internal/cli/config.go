package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mic-monitor/mic-monitor/internal/config"
	"github.com/mic-monitor/mic-monitor/internal/models"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"configure"},
	Short:   "Show the config file and effective settings",
	Long: `Create the config file if it does not exist yet, then print its path and
the effective values. Malformed values are reported and replaced by defaults.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := config.SettingsFile()
	if err != nil {
		return err
	}

	settings, loadErr := config.LoadSettingsFrom(path)
	prefs, err := config.LoadPrefs()
	if err != nil {
		prefs = models.NewPrefs()
	}

	fmt.Printf("%s %s\n\n", styleLabel.Render("Config file:"), styleValue.Render(path))
	row := func(label, value string) {
		fmt.Printf("  %-22s %s\n", styleLabel.Render(label), styleValue.Render(value))
	}
	row("colors.active", models.HexColor(settings.Colors.Active))
	row("colors.inactive", models.HexColor(settings.Colors.Inactive))
	row("colors.accent", models.HexColor(settings.Colors.Accent))
	row("audio.threshold", strconv.FormatFloat(settings.Audio.Threshold, 'g', -1, 64))
	row("monitor.latency_msec", strconv.Itoa(settings.Monitor.LatencyMsec))
	row("left_click_toggle", strconv.FormatBool(prefs.LeftClickToggle))

	if loadErr != nil {
		fmt.Printf("\n%s %v\n", styleWarning.Render("Warning:"), loadErr)
	}
	return nil
}
