package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/app"
	"github.com/vovakirdan/fbmandel/internal/config"
	"github.com/vovakirdan/fbmandel/internal/display/fbdev"
	"github.com/vovakirdan/fbmandel/internal/lifecycle"
	"github.com/vovakirdan/fbmandel/internal/platform/term"
	"github.com/vovakirdan/fbmandel/internal/render"
	"github.com/vovakirdan/fbmandel/internal/storage"
)

var (
	flagDevice     string
	flagIterations int
	flagPolicy     string
	flagEvaluator  string
	flagRegion     string
	flagLayout     string
	flagNoHistory  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one frame to the framebuffer",
	Long: `Render the configured view into the framebuffer and keep it on screen
until interrupted (Ctrl+C or SIGTERM). The console cursor is hidden while the
frame is shown and the screen is cleared on exit.

Examples:
  fbmandel render
  fbmandel render --device /dev/fb1
  fbmandel render --region spiral --iterations 1000
  fbmandel render --evaluator wheel
  fbmandel render --policy binary --layout abgr`,
	Run: runRender,
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().StringVar(&flagDevice, "device", fbdev.DefaultPath, "Framebuffer device")
}

// addRenderFlags registers the flags shared by render and preview.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagIterations, "iterations", 0, "Maximum iterations per point")
	cmd.Flags().StringVar(&flagPolicy, "policy", "", "Color policy: hue, binary")
	cmd.Flags().StringVar(&flagEvaluator, "evaluator", "", "Evaluator: mandelbrot, wheel, solid")
	cmd.Flags().StringVar(&flagRegion, "region", "", "Named region (see 'fbmandel list')")
	cmd.Flags().StringVar(&flagLayout, "layout", "", "Pixel layout: auto, argb, abgr, rgb")
	cmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record this render")
}

// applyRenderFlags overrides config values with the flags that were set.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Device = flagDevice
	}
	if flags.Changed("iterations") {
		cfg.MaxIterations = flagIterations
	}
	if flags.Changed("policy") {
		cfg.Policy = flagPolicy
	}
	if flags.Changed("evaluator") {
		cfg.Evaluator = flagEvaluator
	}
	if flags.Changed("layout") {
		cfg.Layout = flagLayout
	}
	if flags.Changed("region") {
		if err := config.ApplyRegion(cfg, flagRegion); err != nil {
			return err
		}
	}
	if flagNoHistory {
		cfg.History.Enabled = false
	}
	return cfg.Validate()
}

// openHistory opens the history store when enabled. Failures only disable
// recording.
func openHistory(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("render history disabled", "err", err)
		return nil
	}
	return store
}

func runRender(cmd *cobra.Command, _ []string) {
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

	opts := app.Options{
		Config:    cfg,
		Open:      fbdev.Open,
		Lifecycle: lc,
		Terminal:  term.New(os.Stdout),
		Logger:    logger,
	}
	if store := openHistory(cfg, logger); store != nil {
		defer store.Close()
		opts.History = store
	}

	res, err := app.Run(context.Background(), opts)
	if err != nil {
		reportRenderError(err)
		os.Exit(1)
	}
	logger.Info("done",
		"geometry", res.Geometry.String(),
		"layout", res.Layout.String(),
		"presented", res.Presented,
	)
}

// reportRenderError prints a hint for each failure class.
func reportRenderError(err error) {
	var acqErr *app.AcquisitionError
	var allocErr *render.AllocationError
	var presentErr *render.PresentError

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case errors.As(err, &acqErr):
		fmt.Fprintln(os.Stderr, "Check that the device exists and that you can write to it (video group).")
	case errors.As(err, &allocErr):
		fmt.Fprintln(os.Stderr, "The frame buffer for this display could not be allocated.")
	case errors.As(err, &presentErr):
		fmt.Fprintln(os.Stderr, "The frame could not be written to display memory.")
	}
}
