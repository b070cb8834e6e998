// Package memsurface provides an in-memory display device. It backs the
// terminal preview and stands in for hardware in tests.
package memsurface

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display"
)

// Device is an in-memory display device.
// Memory is guarded so a concurrent reader never observes a half-written
// commit: writers go through Commit, readers through Snapshot.
type Device struct {
	name     string
	geometry core.Geometry
	layout   core.Layout

	mu     sync.Mutex
	mem    []byte
	mapped bool
	closed bool

	// Fault injection for tests.
	GeometryErr error
	MapErr      error
}

// New creates a device with the given geometry and layout.
func New(name string, g core.Geometry, layout core.Layout) *Device {
	return &Device{
		name:     name,
		geometry: g,
		layout:   layout,
		mem:      make([]byte, g.Bytes()),
	}
}

// Name implements display.Device.
func (d *Device) Name() string {
	return d.name
}

// Geometry implements display.Device.
func (d *Device) Geometry() (core.Geometry, error) {
	if d.GeometryErr != nil {
		return core.Geometry{}, d.GeometryErr
	}
	return d.geometry, nil
}

// Layout implements display.Device.
func (d *Device) Layout() (core.Layout, bool) {
	return d.layout, true
}

// Map implements display.Device.
func (d *Device) Map() (display.Surface, error) {
	if d.MapErr != nil {
		return nil, d.MapErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("memsurface: device is closed")
	}
	if d.mapped {
		return nil, errors.New("memsurface: already mapped")
	}
	d.mapped = true
	return surface{d}, nil
}

// Unmap implements display.Device.
func (d *Device) Unmap() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mapped {
		return display.ErrUnmapped
	}
	d.mapped = false
	return nil
}

// Close implements display.Device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("memsurface: already closed")
	}
	d.closed = true
	return nil
}

// Mapped reports whether the memory is currently mapped.
func (d *Device) Mapped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mapped
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Snapshot returns a copy of the device memory.
func (d *Device) Snapshot() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.mem))
	copy(out, d.mem)
	return out
}

// Pixel returns the packed pixel at (row, col) of the device memory.
func (d *Device) Pixel(row, col int) (core.PixelColor, error) {
	g := d.geometry
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return 0, fmt.Errorf("memsurface: pixel (%d, %d) outside %s", row, col, g)
	}
	off := (row*g.Stride + col) * g.BytesPerPixel
	d.mu.Lock()
	defer d.mu.Unlock()
	return core.PixelColor(binary.NativeEndian.Uint32(d.mem[off : off+4])), nil
}

// surface is the mapped view of a Device.
type surface struct {
	d *Device
}

// Memory returns a locked view of the device memory. Callers that write
// must use Commit instead to keep the write atomic for readers.
func (s surface) Memory() ([]byte, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if !s.d.mapped {
		return nil, display.ErrUnmapped
	}
	return s.d.mem, nil
}

// Commit copies src into the device memory under the device lock.
func (s surface) Commit(src []byte) (int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if !s.d.mapped {
		return 0, display.ErrUnmapped
	}
	return copy(s.d.mem, src), nil
}
