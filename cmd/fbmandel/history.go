package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/config"
	"github.com/vovakirdan/fbmandel/internal/platform/term"
	"github.com/vovakirdan/fbmandel/internal/platform/tui"
	"github.com/vovakirdan/fbmandel/internal/storage"
)

var (
	flagHistoryEvaluator   string
	flagHistoryLimit       int
	flagHistoryInteractive bool
	flagHistoryClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent renders",
	Long: `Display the statistics recorded for past renders. Frames themselves
are never stored.

Examples:
  fbmandel history
  fbmandel history --evaluator mandelbrot --limit 20
  fbmandel history --interactive
  fbmandel history --clear`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryEvaluator, "evaluator", "", "Only show renders of this evaluator")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of renders to show")
	historyCmd.Flags().BoolVarP(&flagHistoryInteractive, "interactive", "i", false, "Browse history in a full-screen table")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded renders")
}

func runHistory(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Render history cleared.")
		return
	}

	if flagHistoryInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.Size(os.Stdout); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	records, err := store.RecentRenders(flagHistoryEvaluator, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render history (%s)\n", config.ExpandPath(cfg.History.Path))
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No renders recorded yet.")
		fmt.Println()
		fmt.Println("Run 'fbmandel render' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-10s  %-6s  %-10s  %6s  %-13s  %8s  %s\n",
		"Date", "Evaluator", "Policy", "Size", "Iter", "Region", "Members", "Time")
	fmt.Printf("  %-16s  %-10s  %-6s  %-10s  %6s  %-13s  %8s  %s\n",
		"----", "---------", "------", "----", "----", "------", "-------", "----")

	for _, r := range records {
		region := r.Region
		if region == "" {
			region = "-"
		}
		fmt.Printf("  %-16s  %-10s  %-6s  %-10s  %6d  %-13s  %8d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Evaluator,
			r.Policy,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.MaxIterations,
			region,
			r.Members,
			r.Duration,
		)
	}

	// Show totals
	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %d renders, %d pixels, %s average\n", stats.Renders, stats.Pixels, stats.AvgDuration)
		ids := make([]string, 0, len(stats.ByEvaluator))
		for id := range stats.ByEvaluator {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("  %-10s  %d\n", id, stats.ByEvaluator[id])
		}
	}
}
