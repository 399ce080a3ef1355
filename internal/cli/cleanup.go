package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mic-monitor/mic-monitor/internal/config"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Unload leftover loopback modules",
	Long: `Unload every module-loopback instance from the sound server.

Use this if mic-monitor was killed without a chance to clean up and your
microphone is still playing through the speakers.`,
	RunE: runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsInstanceRunning()
	if err == nil && running {
		fmt.Println(styleWarning.Render(fmt.Sprintf("mic-monitor is running (PID %d); its loopbacks will be unloaded too.", info.PID)))
	}

	settings, _ := config.LoadSettings()
	return unloadLoopbacks(context.Background(), newGateway(settings), os.Stdout)
}

type loopbackUnloader interface {
	UnloadAllLoopbacks(ctx context.Context) bool
}

// unloadLoopbacks reports to w. Nothing loaded counts as success.
func unloadLoopbacks(ctx context.Context, gw loopbackUnloader, w io.Writer) error {
	if !gw.UnloadAllLoopbacks(ctx) {
		return errors.New("failed to unload loopback modules (is pactl installed and the sound server running?)")
	}
	fmt.Fprintln(w, styleSuccess.Render("No loopback modules left loaded."))
	return nil
}
