package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fbmandel/internal/config"
	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/palette"
	"github.com/vovakirdan/fbmandel/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluators, policies, layouts and regions",
	Long:  `Shows every value accepted by --evaluator, --policy, --layout and --region.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	evaluators := registry.List()

	fmt.Println("Evaluators:")
	maxIDLen := 2 // "ID" header
	for _, e := range evaluators {
		if len(e.ID) > maxIDLen {
			maxIDLen = len(e.ID)
		}
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, e := range evaluators {
		fmt.Printf("  %-*s  %s\n", maxIDLen, e.ID, e.Title)
	}

	fmt.Println()
	fmt.Print("Color policies:")
	for _, p := range palette.AllPolicies() {
		fmt.Printf(" %s", p)
	}
	fmt.Println()

	fmt.Print("Pixel layouts:  auto")
	for _, l := range core.AllLayouts() {
		fmt.Printf(" %s", l)
	}
	fmt.Println()

	fmt.Println()
	fmt.Println("Regions:")
	for _, r := range config.Regions() {
		v := r.Viewport
		fmt.Printf("  %-14s re [%g, %g]  im [%g, %g]  %s\n",
			r.Name, v.DomainMin, v.DomainMax, v.RangeMin, v.RangeMax, r.Description)
	}

	fmt.Println()
	fmt.Println("Run 'fbmandel render --region <name>' to render a region.")
}
