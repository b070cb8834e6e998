package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/app"
	"github.com/vovakirdan/fbmandel/internal/lifecycle"
	"github.com/vovakirdan/fbmandel/internal/platform/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render into the terminal",
	Long: `Run the same pipeline against an in-memory surface sized to the
terminal and show it with truecolor half-block characters. Useful over SSH
or inside a desktop session where the framebuffer is not available.

Controls:
  Q/Esc/Ctrl+C - Stop

Examples:
  fbmandel preview
  fbmandel preview --region elephant
  fbmandel preview --policy binary`,
	Run: runPreview,
}

func init() {
	addRenderFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyRenderFlags(cmd, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	lc := lifecycle.New(logger)
	stopSignals := lc.NotifySignals()
	defer stopSignals()

	var history app.HistoryStore
	if store := openHistory(cfg, logger); store != nil {
		defer store.Close()
		history = store
	}

	if err := tui.RunPreview(cfg, lc, history, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
