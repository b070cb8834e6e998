package fractal

import (
	"math"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/registry"
)

// Wheel is a test pattern: the count follows the angle of c around the
// origin, so the hue ramp draws a color wheel centered on 0. No point is
// ever a set member.
type Wheel struct{}

// ID returns the registry identifier.
func (Wheel) ID() string { return "wheel" }

// Title returns the display name.
func (Wheel) Title() string { return "Color wheel test pattern" }

// Evaluate implements registry.Evaluator.
func (Wheel) Evaluate(c core.Point, maxIterations int) core.EscapeResult {
	if maxIterations <= 0 {
		return core.EscapeResult{}
	}
	turn := (math.Atan2(c.Im, c.Re) + math.Pi) / (2 * math.Pi)
	count := core.Clamp(int(turn*float64(maxIterations)), 0, maxIterations-1)
	return core.EscapeResult{Count: count, Max: maxIterations}
}

// Solid reports every point as a set member, filling the surface with the
// member color of the active palette.
type Solid struct{}

// ID returns the registry identifier.
func (Solid) ID() string { return "solid" }

// Title returns the display name.
func (Solid) Title() string { return "Solid fill" }

// Evaluate implements registry.Evaluator.
func (Solid) Evaluate(_ core.Point, maxIterations int) core.EscapeResult {
	if maxIterations < 0 {
		maxIterations = 0
	}
	return core.EscapeResult{Count: maxIterations, Max: maxIterations}
}

func init() {
	registry.Register("wheel", func() registry.Evaluator { return Wheel{} })
	registry.Register("solid", func() registry.Evaluator { return Solid{} })
}
