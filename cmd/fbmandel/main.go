// fbmandel renders the Mandelbrot set straight into the Linux framebuffer.
//
// Usage:
//
//	fbmandel render           - Render one frame to the framebuffer and hold it
//	fbmandel preview          - Render into the terminal instead
//	fbmandel info             - Show framebuffer geometry and pixel layout
//	fbmandel list             - List evaluators, policies, layouts and regions
//	fbmandel history          - Show recent renders
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.fbmandel, ./configs)
//	--log-level <lvl>   - Log level: debug, info, warn, error
//	--db <path>         - History database (default: from config)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/config"

	// Import evaluators to register them
	_ "github.com/vovakirdan/fbmandel/internal/fractal"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fbmandel",
	Short: "Render the Mandelbrot set to the Linux framebuffer",
	Long: `fbmandel renders the Mandelbrot escape-time fractal directly into a
memory-mapped framebuffer device, without any windowing system.

Available commands:
  render   - Render one frame to the framebuffer and hold it until stopped
  preview  - Render the same frame into the terminal
  info     - Show framebuffer geometry and pixel layout
  list     - List evaluators, color policies, layouts and regions
  history  - Show recent renders

Examples:
  fbmandel render
  fbmandel render --region seahorse --iterations 500
  fbmandel preview --policy binary
  fbmandel info --device /dev/fb1
  fbmandel history --interactive`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default from config)")

	// Add subcommands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
}

// newLogger creates the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fbmandel",
	})
	logger.SetLevel(cfg.LogLevel())
	return logger
}

// loadConfig loads the config and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return cfg, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.History.Path = flagDBPath
	}
	return cfg, nil
}
