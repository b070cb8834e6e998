// Package display defines the contract of the display collaborator: a device
// that reports its geometry and exposes its pixel memory as a mapped region.
package display

import (
	"errors"

	"github.com/vovakirdan/fbmandel/internal/core"
)

// ErrUnmapped is returned when surface memory is requested after Unmap.
var ErrUnmapped = errors.New("display: surface is not mapped")

// Surface is mapped display memory. The memory is a flat array of packed
// pixels addressed by row*stride + col.
type Surface interface {
	// Memory returns the mapped region, or an error if it is no longer valid.
	Memory() ([]byte, error)
}

// Committer is implemented by surfaces that perform the bulk copy of a
// frame themselves, for example under a lock shared with readers.
type Committer interface {
	Commit(src []byte) (int, error)
}

// Device is an opened display.
type Device interface {
	// Name returns the path or label of the device.
	Name() string

	// Geometry queries the pixel geometry of the device.
	Geometry() (core.Geometry, error)

	// Layout returns the channel layout the device reports.
	// The second result is false when the layout cannot be determined.
	Layout() (core.Layout, bool)

	// Map maps the device memory. It may be called once per device.
	Map() (Surface, error)

	// Unmap releases the mapping; the Surface becomes invalid.
	Unmap() error

	// Close releases the device handle.
	Close() error
}

// Opener opens a display device by path.
type Opener func(path string) (Device, error)
