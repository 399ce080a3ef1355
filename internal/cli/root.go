// Package cli implements the mic-monitor commands.
package cli

import (
	"log"

	"github.com/spf13/cobra"
)

var foreground bool

var rootCmd = &cobra.Command{
	Use:   "mic-monitor",
	Short: "Monitor microphones through your speakers from the system tray",
	Long: `mic-monitor toggles PulseAudio/PipeWire loopback monitoring for
microphone sources. The tray icon shows whether monitoring is on, whether the
default source is muted and whether audio is coming in.

Run with --foreground to use a terminal UI instead of the tray.`,
	SilenceUsage: true,
	RunE:         runRoot,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetPrefix("[mic-monitor] ")
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run with a terminal UI instead of the system tray")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}
