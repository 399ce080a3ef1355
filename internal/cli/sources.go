package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mic-monitor/mic-monitor/internal/config"
	"github.com/mic-monitor/mic-monitor/internal/registry"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"ls"},
	Short:   "List input sources",
	Long:    `List the microphone sources mic-monitor would offer, marking the default and its mute state.`,
	RunE:    runSources,
}

func runSources(cmd *cobra.Command, args []string) error {
	settings, _ := config.LoadSettings()
	gw := newGateway(settings)
	ctx := context.Background()

	store := state.NewStore()
	reg := registry.New(gw, store, noRender{}).Refresh(ctx)

	if len(reg.Sources) == 0 && reg.DefaultSource == "" {
		fmt.Println(styleWarning.Render("No input sources found."))
		fmt.Println(styleHint.Render("Is pactl installed and a PulseAudio or PipeWire server running?"))
		return nil
	}

	for _, src := range reg.Sources {
		marker := "  "
		if src.Name == reg.DefaultSource {
			marker = styleSuccess.Render("* ")
		}
		fmt.Printf("%s%s\n", marker, styleValue.Render(src.Label()))
		fmt.Printf("    %s\n", styleHint.Render(src.Name))
	}

	if reg.DefaultSource != "" {
		mute := styleSuccess.Render("no")
		if gw.SourceMuted(ctx, reg.DefaultSource) {
			mute = styleError.Render("yes")
		}
		fmt.Printf("\n%s %s\n", styleLabel.Render("Default:"), styleValue.Render(reg.DefaultSource))
		fmt.Printf("%s %s\n", styleLabel.Render("Muted:"), mute)
	}
	return nil
}

// noRender is a renderer for one-shot commands without a display.
type noRender struct{}

func (noRender) Render() {}
