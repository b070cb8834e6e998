//go:build linux

package fbdev

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/vovakirdan/fbmandel/internal/core"
	"github.com/vovakirdan/fbmandel/internal/display"
)

// Device is an opened Linux framebuffer.
type Device struct {
	path  string
	fd    int
	vinfo varScreenInfo
	finfo fixScreenInfo

	mu  sync.Mutex
	mem []byte
}

// Open opens the framebuffer at path and reads its screen info.
func Open(path string) (display.Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: cannot open %s: %w", path, err)
	}

	d := &Device{path: path, fd: fd}
	if err := ioctl(fd, ioctlGetVScreenInfo, unsafe.Pointer(&d.vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: cannot get variable screen info of %s: %w", path, err)
	}
	if err := ioctl(fd, ioctlGetFScreenInfo, unsafe.Pointer(&d.finfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: cannot get fixed screen info of %s: %w", path, err)
	}
	return d, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Name implements display.Device.
func (d *Device) Name() string {
	return d.path
}

// Driver returns the framebuffer driver identification.
func (d *Device) Driver() string {
	return d.finfo.driverID()
}

// Geometry implements display.Device.
func (d *Device) Geometry() (core.Geometry, error) {
	return geometryFrom(d.vinfo, d.finfo)
}

// Layout implements display.Device.
func (d *Device) Layout() (core.Layout, bool) {
	return layoutFrom(d.vinfo)
}

// Map implements display.Device by mapping the whole framebuffer memory.
func (d *Device) Map() (display.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mem != nil {
		return nil, fmt.Errorf("fbdev: %s is already mapped", d.path)
	}
	mem, err := unix.Mmap(d.fd, 0, int(d.finfo.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("fbdev: cannot map %s: %w", d.path, err)
	}
	d.mem = mem
	return surface{d}, nil
}

// Unmap implements display.Device.
func (d *Device) Unmap() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mem == nil {
		return display.ErrUnmapped
	}
	err := unix.Munmap(d.mem)
	d.mem = nil
	if err != nil {
		return fmt.Errorf("fbdev: cannot unmap %s: %w", d.path, err)
	}
	return nil
}

// Close implements display.Device.
func (d *Device) Close() error {
	if err := unix.Close(d.fd); err != nil {
		return fmt.Errorf("fbdev: cannot close %s: %w", d.path, err)
	}
	return nil
}

type surface struct {
	d *Device
}

func (s surface) Memory() ([]byte, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if s.d.mem == nil {
		return nil, display.ErrUnmapped
	}
	return s.d.mem, nil
}
