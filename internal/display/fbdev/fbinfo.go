// Package fbdev is the Linux framebuffer display device. It opens a
// framebuffer such as /dev/fb0, reads its screen info with ioctls and maps its
// memory with mmap.
package fbdev

import (
	"bytes"
	"fmt"

	"github.com/vovakirdan/fbmandel/internal/core"
)

// DefaultPath is the framebuffer used when none is configured.
const DefaultPath = "/dev/fb0"

// ioctl requests from <linux/fb.h>.
const (
	ioctlGetVScreenInfo = 0x4600
	ioctlGetFScreenInfo = 0x4602
)

// bitfield mirrors struct fb_bitfield.
type bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          bitfield
	Green        bitfield
	Blue         bitfield
	Transp       bitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fixScreenInfo mirrors struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// driverID returns the driver identification string.
func (f fixScreenInfo) driverID() string {
	return string(bytes.TrimRight(f.ID[:], "\x00"))
}

// geometryFrom derives the surface geometry from the screen info.
// Only 32 bits per pixel is supported and the mapped memory must hold the
// whole virtual resolution.
func geometryFrom(v varScreenInfo, f fixScreenInfo) (core.Geometry, error) {
	if v.BitsPerPixel != 32 {
		return core.Geometry{}, fmt.Errorf("fbdev: unsupported depth of %d bits per pixel", v.BitsPerPixel)
	}
	bpp := int(v.BitsPerPixel / 8)
	g := core.Geometry{
		Width:         int(v.XResVirtual),
		Height:        int(v.YResVirtual),
		Stride:        int(f.LineLength) / bpp,
		BytesPerPixel: bpp,
	}
	if err := g.Validate(); err != nil {
		return core.Geometry{}, fmt.Errorf("fbdev: %w", err)
	}
	if g.Bytes() > int(f.SmemLen) {
		return core.Geometry{}, fmt.Errorf("fbdev: %s needs %d bytes but the device exposes %d", g, g.Bytes(), f.SmemLen)
	}
	return g, nil
}

// layoutFrom maps the channel bitfields onto a packed layout.
func layoutFrom(v varScreenInfo) (core.Layout, bool) {
	switch {
	case v.Red.Offset == 16 && v.Green.Offset == 8 && v.Blue.Offset == 0:
		if v.Transp.Length > 0 {
			return core.LayoutARGB, true
		}
		return core.LayoutRGB, true
	case v.Red.Offset == 8 && v.Green.Offset == 16 && v.Blue.Offset == 24:
		return core.LayoutABGR, true
	default:
		return core.LayoutARGB, false
	}
}
