// Package render owns the off-surface frame: it fills a pixel buffer by
// sweeping the whole grid through mapper, evaluator and encoder, then
// commits the finished frame to display memory in one bulk copy.
package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display"
)

// MaxPixels bounds the off-surface buffer (512 MiB at 4 bytes per pixel).
const MaxPixels = 1 << 27

// ErrReleased is returned by a presenter whose buffer has been released.
var ErrReleased = errors.New("render: presenter has been released")

// ErrNoFrame is returned when presenting before any frame was rendered.
var ErrNoFrame = errors.New("render: no frame has been rendered")

// Evaluator computes the escape result of a single point.
type Evaluator interface {
	Evaluate(c core.Point, maxIterations int) core.EscapeResult
}

// Encoder packs an escape result into a pixel.
type Encoder interface {
	Encode(r core.EscapeResult) core.PixelColor
}

// Stats summarizes one render pass.
type Stats struct {
	Pixels   int // Grid pixels visited
	Written  int // Pixels written to the buffer
	Skipped  int // Pixels whose point mapped out of bounds
	Members  int // Written pixels that are presumed set members
	Duration time.Duration
}

// Presenter owns the off-surface pixel buffer for the lifetime of a session.
type Presenter struct {
	buf      *core.PixelBuffer
	rendered bool
	logger   *log.Logger
}

// NewPresenter allocates a buffer for the geometry.
// It fails with an *AllocationError when the buffer cannot be obtained.
func NewPresenter(g core.Geometry, logger *log.Logger) (*Presenter, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	buf, err := allocate(g)
	if err != nil {
		return nil, err
	}
	logger.Debug("frame buffer allocated", "geometry", g.String(), "bytes", g.Bytes())
	return &Presenter{buf: buf, logger: logger}, nil
}

func allocate(g core.Geometry) (*core.PixelBuffer, error) {
	if err := g.Validate(); err != nil {
		return nil, &AllocationError{Pixels: g.Pixels(), Err: err}
	}
	if g.Pixels() > MaxPixels {
		return nil, &AllocationError{Pixels: g.Pixels(), Err: fmt.Errorf("exceeds the limit of %d pixels", MaxPixels)}
	}
	return core.NewPixelBuffer(g), nil
}

// Buffer returns the off-surface buffer, or nil after Release.
func (p *Presenter) Buffer() *core.PixelBuffer {
	return p.buf
}

// Render fills the buffer with one complete frame.
// The buffer is cleared first, then every grid pixel is mapped to the point
// at its center, evaluated, encoded and written at the index the mapper
// reports; OutOfBounds indices are skipped. The pass always runs to
// completion and never touches the display.
func (p *Presenter) Render(rc core.RenderContext, ev Evaluator, enc Encoder) (Stats, error) {
	var stats Stats
	if p.buf == nil {
		return stats, ErrReleased
	}
	if err := rc.Validate(); err != nil {
		return stats, fmt.Errorf("render: %w", err)
	}
	m, err := core.NewMapper(rc.Viewport, rc.Geometry)
	if err != nil {
		return stats, fmt.Errorf("render: %w", err)
	}

	if p.buf.Fits(rc.Geometry) {
		p.buf.Clear()
	} else {
		buf, err := allocate(rc.Geometry)
		if err != nil {
			return stats, err
		}
		p.buf = buf
	}
	p.rendered = false

	start := time.Now()
	for row := 0; row < m.Height(); row++ {
		for col := 0; col < m.Width(); col++ {
			stats.Pixels++
			c := m.ComplexPoint(row, col)
			idx := m.PixelIndex(c)
			if idx == core.OutOfBounds {
				stats.Skipped++
				continue
			}
			r := ev.Evaluate(c, rc.MaxIterations)
			if r.Member() {
				stats.Members++
			}
			p.buf.Set(idx, enc.Encode(r))
			stats.Written++
		}
	}
	stats.Duration = time.Since(start)
	p.rendered = true

	p.logger.Debug("frame rendered",
		"pixels", stats.Pixels,
		"skipped", stats.Skipped,
		"members", stats.Members,
		"duration", stats.Duration,
	)
	return stats, nil
}

// Present commits the rendered frame to the surface in a single copy.
// On failure it returns a *PresentError and keeps the frame for a retry.
func (p *Presenter) Present(s display.Surface) error {
	if p.buf == nil {
		return &PresentError{Err: ErrReleased}
	}
	if !p.rendered {
		return &PresentError{Err: ErrNoFrame}
	}

	src := p.buf.Bytes()
	mem, err := s.Memory()
	if err != nil {
		return &PresentError{Err: err}
	}
	if len(mem) < len(src) {
		return &PresentError{Err: fmt.Errorf("surface holds %d bytes, frame needs %d", len(mem), len(src))}
	}

	if c, ok := s.(display.Committer); ok {
		if _, err := c.Commit(src); err != nil {
			return &PresentError{Err: err}
		}
	} else {
		copy(mem, src)
	}

	p.logger.Debug("frame presented", "bytes", len(src))
	return nil
}

// Release drops the buffer. It may be called once; later calls, and any
// Render or Present after it, fail with ErrReleased.
func (p *Presenter) Release() error {
	if p.buf == nil {
		return ErrReleased
	}
	p.buf = nil
	p.rendered = false
	p.logger.Debug("frame buffer released")
	return nil
}

// Blank zeroes the whole surface memory.
func Blank(s display.Surface) error {
	mem, err := s.Memory()
	if err != nil {
		return &PresentError{Err: err}
	}
	if c, ok := s.(display.Committer); ok {
		if _, err := c.Commit(make([]byte, len(mem))); err != nil {
			return &PresentError{Err: err}
		}
		return nil
	}
	clear(mem)
	return nil
}
