// Package core provides the fundamental types of the rendering pipeline:
// points of the complex plane, the viewport onto it, surface geometry, the
// coordinate mapper and the off-surface pixel buffer.
// It contains no external dependencies to keep the pipeline pure and testable.
package core

import (
	"fmt"
	"math"
)

// Point is a point of the complex plane.
// Arithmetic operates by value and never mutates its operands.
type Point struct {
	Re, Im float64
}

// Pt creates a new point from its real and imaginary parts.
func Pt(re, im float64) Point {
	return Point{Re: re, Im: im}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{Re: p.Re + q.Re, Im: p.Im + q.Im}
}

// Mul returns the complex product p * q.
func (p Point) Mul(q Point) Point {
	return Point{
		Re: p.Re*q.Re - p.Im*q.Im,
		Im: p.Im*q.Re + p.Re*q.Im,
	}
}

// AbsSq returns the squared magnitude of p.
func (p Point) AbsSq() float64 {
	return p.Re*p.Re + p.Im*p.Im
}

// Abs returns the magnitude of p.
func (p Point) Abs() float64 {
	return math.Sqrt(p.AbsSq())
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%g%+gi)", p.Re, p.Im)
}

// Viewport is the visible rectangle of the complex plane.
// Domain bounds the real axis, range bounds the imaginary axis.
type Viewport struct {
	DomainMin float64 `yaml:"domain_min"`
	DomainMax float64 `yaml:"domain_max"`
	RangeMin  float64 `yaml:"range_min"`
	RangeMax  float64 `yaml:"range_max"`
}

// DefaultViewport returns the classic full view of the Mandelbrot set.
func DefaultViewport() Viewport {
	return Viewport{DomainMin: -2, DomainMax: 1, RangeMin: -1, RangeMax: 1}
}

// DomainSpan returns the width of the viewport along the real axis.
func (v Viewport) DomainSpan() float64 {
	return v.DomainMax - v.DomainMin
}

// RangeSpan returns the height of the viewport along the imaginary axis.
func (v Viewport) RangeSpan() float64 {
	return v.RangeMax - v.RangeMin
}

// Contains reports whether p lies inside the closed viewport rectangle.
func (v Viewport) Contains(p Point) bool {
	return p.Re >= v.DomainMin && p.Re <= v.DomainMax &&
		p.Im >= v.RangeMin && p.Im <= v.RangeMax
}

// Validate checks that all bounds are finite and min < max on both axes.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.DomainMin, v.DomainMax, v.RangeMin, v.RangeMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("viewport: bounds must be finite, got %+v", v)
		}
	}
	if v.DomainMin >= v.DomainMax {
		return fmt.Errorf("viewport: domain_min %g must be less than domain_max %g", v.DomainMin, v.DomainMax)
	}
	if v.RangeMin >= v.RangeMax {
		return fmt.Errorf("viewport: range_min %g must be less than range_max %g", v.RangeMin, v.RangeMax)
	}
	return nil
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
