package config

import (
	_ "embed"
	"strings"

	"github.com/vovakirdan/fbmandel/internal/core"
)

//go:embed defaults/fbmandel.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Device:        "/dev/fb0",
		MaxIterations: core.DefaultMaxIterations,
		Viewport:      core.DefaultViewport(),
		Evaluator:     "mandelbrot",
		Policy:        "hue",
		Layout:        LayoutAuto,
		Alpha:         0xff,
		Binary: BinaryColors{
			Member:  "#000000",
			Escaped: "#ffffff",
		},
		Terminal: TerminalConfig{
			HideCursor:  true,
			ClearScreen: true,
		},
		ClearOnExit: true,
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.fbmandel/history.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Region is a named viewport preset.
type Region struct {
	Name        string
	Description string
	Viewport    core.Viewport
}

var regions = []Region{
	{"full", "The whole set", core.DefaultViewport()},
	{"seahorse", "Seahorse valley", core.Viewport{DomainMin: -0.8, DomainMax: -0.7, RangeMin: 0.05, RangeMax: 0.15}},
	{"elephant", "Elephant valley", core.Viewport{DomainMin: -1.85, DomainMax: -1.75, RangeMin: -0.10, RangeMax: -0.02}},
	{"spiral", "Spiral in seahorse valley", core.Viewport{DomainMin: -0.7435, DomainMax: -0.7420, RangeMin: 0.1310, RangeMax: 0.1325}},
	{"triple-spiral", "Triple spiral", core.Viewport{DomainMin: -0.7480, DomainMax: -0.7450, RangeMin: 0.0950, RangeMax: 0.0980}},
	{"dragon", "Dragon", core.Viewport{DomainMin: -0.7400, DomainMax: -0.7350, RangeMin: 0.1800, RangeMax: 0.1850}},
	{"mini-spiral", "Spiral near the mini-Mandelbrot", core.Viewport{DomainMin: -1.7390, DomainMax: -1.7375, RangeMin: -0.0235, RangeMax: -0.0220}},
}

// Regions returns all named presets in display order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByName looks up a preset, ignoring case.
func RegionByName(name string) (Region, bool) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Region{}, false
}
