package core

import (
	"fmt"
	"math"
)

// Index is a linear pixel index into a surface, composed as row*stride + col.
type Index int

// MinPixelULPs is the smallest pixel accepted by NewMapper, measured in units
// in the last place of the largest bound on that axis. Below it a pixel
// center no longer maps back to its own pixel.
const MinPixelULPs = 16

// OutOfBounds is the sentinel index for points and cells outside the grid.
// It is an expected control-flow value, not an error.
const OutOfBounds Index = -1

// Valid reports whether i addresses a pixel.
func (i Index) Valid() bool {
	return i >= 0
}

// Mapper converts between points of the complex plane and pixel indices.
// Spans are computed once at construction and reused for every pixel.
//
// The real axis is half-open [DomainMin, DomainMax) and the imaginary axis is
// (RangeMin, RangeMax]: of the four viewport corners only the top-left one,
// (DomainMin, RangeMax), lands on the grid.
type Mapper struct {
	domainMin  float64
	rangeMin   float64
	domainSpan float64
	rangeSpan  float64
	viewport   Viewport
	width      int
	height     int
	stride     int
}

// NewMapper creates a mapper for the viewport projected onto the geometry.
func NewMapper(v Viewport, g Geometry) (*Mapper, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if g.Width <= 0 || g.Height <= 0 || g.Stride < g.Width {
		return nil, g.Validate()
	}
	if err := checkResolution("domain", v.DomainMin, v.DomainMax, g.Width); err != nil {
		return nil, err
	}
	if err := checkResolution("range", v.RangeMin, v.RangeMax, g.Height); err != nil {
		return nil, err
	}
	return &Mapper{
		domainMin:  v.DomainMin,
		rangeMin:   v.RangeMin,
		domainSpan: v.DomainSpan(),
		rangeSpan:  v.RangeSpan(),
		viewport:   v,
		width:      g.Width,
		height:     g.Height,
		stride:     g.Stride,
	}, nil
}

// checkResolution rejects an axis whose pixels are too fine for float64.
func checkResolution(axis string, min, max float64, pixels int) error {
	bound := math.Max(math.Abs(min), math.Abs(max))
	ulp := math.Nextafter(bound, math.Inf(1)) - bound
	step := (max - min) / float64(pixels)
	if step < MinPixelULPs*ulp {
		return fmt.Errorf("viewport: %s span %g is below float64 resolution for %d pixels", axis, max-min, pixels)
	}
	return nil
}

// Width returns the pixel width of the grid.
func (m *Mapper) Width() int {
	return m.width
}

// Height returns the pixel height of the grid.
func (m *Mapper) Height() int {
	return m.height
}

// PixelIndex returns the linear index of the pixel containing p,
// or OutOfBounds if p lies outside the viewport or off the grid edge.
func (m *Mapper) PixelIndex(p Point) Index {
	if !m.viewport.Contains(p) {
		return OutOfBounds
	}

	colFrac := (p.Re - m.domainMin) / m.domainSpan
	// Screen rows grow downward, the imaginary axis grows upward
	rowFrac := 1 - (p.Im-m.rangeMin)/m.rangeSpan

	row := int(rowFrac * float64(m.height))
	col := int(colFrac * float64(m.width))
	return m.index(row, col)
}

// ComplexPoint returns the point at the center of pixel (row, col).
// It is the inverse of PixelIndex for every pixel of the grid.
func (m *Mapper) ComplexPoint(row, col int) Point {
	colFrac := (float64(col) + 0.5) / float64(m.width)
	rowFrac := (float64(row) + 0.5) / float64(m.height)
	return Point{
		Re: m.domainMin + colFrac*m.domainSpan,
		Im: m.rangeMin + (1-rowFrac)*m.rangeSpan,
	}
}

// Index composes (row, col) into a linear index, or OutOfBounds.
func (m *Mapper) Index(row, col int) Index {
	return m.index(row, col)
}

func (m *Mapper) index(row, col int) Index {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return OutOfBounds
	}
	return Index(row*m.stride + col)
}
