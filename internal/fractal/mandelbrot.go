// Package fractal provides the per-pixel evaluators of the pipeline: the
// Mandelbrot escape-time iteration and fixed patterns for checking a display.
package fractal

import (
	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/registry"
)

// EscapeRadiusSq is the squared escape radius of z -> z^2 + c.
const EscapeRadiusSq = 4.0

// Iterate runs the escape-time iteration for c.
// Starting from z = 0 it applies z = z^2 + c until |z| > 2 or the budget of
// maxIterations steps is spent. The count is the number of steps taken.
func Iterate(c core.Point, maxIterations int) core.EscapeResult {
	var z core.Point
	n := 0
	for n < maxIterations && z.AbsSq() <= EscapeRadiusSq {
		z = z.Mul(z).Add(c)
		n++
	}
	if maxIterations < 0 {
		maxIterations = 0
	}
	return core.EscapeResult{Count: n, Max: maxIterations}
}

// Mandelbrot is the escape-time evaluator of the Mandelbrot set.
type Mandelbrot struct{}

// ID returns the registry identifier.
func (Mandelbrot) ID() string { return "mandelbrot" }

// Title returns the display name.
func (Mandelbrot) Title() string { return "Mandelbrot set" }

// Evaluate implements registry.Evaluator.
func (Mandelbrot) Evaluate(c core.Point, maxIterations int) core.EscapeResult {
	return Iterate(c, maxIterations)
}

func init() {
	registry.Register("mandelbrot", func() registry.Evaluator { return Mandelbrot{} })
}
