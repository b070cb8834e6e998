//go:build !linux

package fbdev

import (
	"fmt"
	"runtime"

	"github.com/vovakirdan/fbmandel/internal/display"
)

// Open always fails: framebuffer devices are Linux only.
func Open(path string) (display.Device, error) {
	return nil, fmt.Errorf("fbdev: cannot open %s: framebuffer devices are not supported on %s", path, runtime.GOOS)
}
