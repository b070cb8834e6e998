package core

import "fmt"

// Geometry describes a display surface as reported by the display device.
// It is read-only to the pipeline.
type Geometry struct {
	Width         int // Visible width in pixels
	Height        int // Visible height in pixels
	Stride        int // Row stride in pixels, may exceed Width due to padding
	BytesPerPixel int // Size of one packed pixel in memory
}

// Pixels returns the number of packed pixels a full surface holds.
func (g Geometry) Pixels() int {
	return g.Stride * g.Height
}

// Bytes returns the size in bytes of a full surface.
func (g Geometry) Bytes() int {
	return g.Pixels() * g.BytesPerPixel
}

// Validate checks that the geometry describes a usable surface.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("geometry: invalid size %dx%d", g.Width, g.Height)
	}
	if g.Stride < g.Width {
		return fmt.Errorf("geometry: stride %d is smaller than width %d", g.Stride, g.Width)
	}
	if g.BytesPerPixel != 4 {
		return fmt.Errorf("geometry: unsupported pixel size of %d bytes", g.BytesPerPixel)
	}
	return nil
}

// String returns a compact description such as "1920x1080 (stride 1920, 32bpp)".
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d (stride %d, %dbpp)", g.Width, g.Height, g.Stride, g.BytesPerPixel*8)
}

// RenderContext is the immutable set of parameters for one render pass.
// It is passed by value to every component instead of process-wide state.
type RenderContext struct {
	Viewport      Viewport
	Geometry      Geometry
	MaxIterations int
}

// DefaultMaxIterations is the iteration budget used when none is configured.
const DefaultMaxIterations = 100

// Validate checks the viewport, the geometry and the iteration budget.
func (rc RenderContext) Validate() error {
	if err := rc.Viewport.Validate(); err != nil {
		return err
	}
	if err := rc.Geometry.Validate(); err != nil {
		return err
	}
	if rc.MaxIterations <= 0 {
		return fmt.Errorf("render: max iterations must be positive, got %d", rc.MaxIterations)
	}
	return nil
}
