package core

import (
	"fmt"
	"strings"
)

// PixelColor is a packed pixel value as stored in surface memory.
type PixelColor uint32

// RGBA is an unpacked color with 8-bit channels.
type RGBA struct {
	R, G, B, A uint8
}

// Predefined colors.
var (
	Black = RGBA{0, 0, 0, 0xff}
	White = RGBA{0xff, 0xff, 0xff, 0xff}
)

// Layout is the channel order of a packed pixel.
type Layout uint8

const (
	LayoutARGB Layout = iota // a<<24 | r<<16 | g<<8 | b
	LayoutABGR               // b<<24 | g<<16 | r<<8 | a
	LayoutRGB                // r<<16 | g<<8 | b, alpha dropped
)

// String returns the configuration name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutARGB:
		return "argb"
	case LayoutABGR:
		return "abgr"
	case LayoutRGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// ParseLayout converts a configuration name to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "argb":
		return LayoutARGB, nil
	case "abgr":
		return LayoutABGR, nil
	case "rgb":
		return LayoutRGB, nil
	default:
		return LayoutARGB, fmt.Errorf("unknown pixel layout %q", s)
	}
}

// AllLayouts returns every supported layout.
func AllLayouts() []Layout {
	return []Layout{LayoutARGB, LayoutABGR, LayoutRGB}
}

// Pack encodes c into a pixel value with this layout.
func (l Layout) Pack(c RGBA) PixelColor {
	r, g, b, a := PixelColor(c.R), PixelColor(c.G), PixelColor(c.B), PixelColor(c.A)
	switch l {
	case LayoutABGR:
		return b<<24 | g<<16 | r<<8 | a
	case LayoutRGB:
		return r<<16 | g<<8 | b
	default:
		return a<<24 | r<<16 | g<<8 | b
	}
}

// Unpack decodes a pixel value packed with this layout.
// LayoutRGB carries no alpha and unpacks as opaque.
func (l Layout) Unpack(p PixelColor) RGBA {
	switch l {
	case LayoutABGR:
		return RGBA{R: uint8(p >> 8), G: uint8(p >> 16), B: uint8(p >> 24), A: uint8(p)}
	case LayoutRGB:
		return RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xff}
	default:
		return RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
	}
}

// Hex returns the color as "#rrggbb".
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
