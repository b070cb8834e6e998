package core

import "unsafe"

// PixelBuffer is an off-surface grid of packed pixels laid out exactly like
// the surface it will be committed to: Stride*Height values, row-major.
// Padding columns between Width and Stride are never written.
type PixelBuffer struct {
	width  int
	height int
	stride int
	pix    []PixelColor
}

// NewPixelBuffer creates a zeroed buffer for the given geometry.
func NewPixelBuffer(g Geometry) *PixelBuffer {
	return &PixelBuffer{
		width:  g.Width,
		height: g.Height,
		stride: g.Stride,
		pix:    make([]PixelColor, g.Stride*g.Height),
	}
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Stride returns the row stride in pixels.
func (b *PixelBuffer) Stride() int {
	return b.stride
}

// Len returns the number of packed pixels, padding included.
func (b *PixelBuffer) Len() int {
	return len(b.pix)
}

// Fits reports whether the buffer already matches the geometry.
func (b *PixelBuffer) Fits(g Geometry) bool {
	return b.width == g.Width && b.height == g.Height && b.stride == g.Stride
}

// Index returns the linear index of (row, col), or OutOfBounds.
func (b *PixelBuffer) Index(row, col int) Index {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return OutOfBounds
	}
	return Index(row*b.stride + col)
}

// Set stores c at index i.
// OutOfBounds and indices past the end are ignored; it reports whether c was stored.
func (b *PixelBuffer) Set(i Index, c PixelColor) bool {
	if i < 0 || int(i) >= len(b.pix) {
		return false
	}
	b.pix[i] = c
	return true
}

// Get returns the pixel at index i.
// The second result is false for OutOfBounds and indices past the end.
func (b *PixelBuffer) Get(i Index) (PixelColor, bool) {
	if i < 0 || int(i) >= len(b.pix) {
		return 0, false
	}
	return b.pix[i], true
}

// Clear zeroes the whole buffer, padding included.
func (b *PixelBuffer) Clear() {
	clear(b.pix)
}

// Bytes returns the buffer memory as bytes in native byte order, which is
// how a 32 bits per pixel framebuffer stores its pixels. The slice aliases
// the buffer.
func (b *PixelBuffer) Bytes() []byte {
	if len(b.pix) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.pix[0])), len(b.pix)*4)
}
