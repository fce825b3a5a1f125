// Package framebuf provides the RGBA frame buffer shared by the panel drivers.
package framebuf

import (
	"image"
	"image/color"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

// Buffer is an in-memory canvas backed by an image.RGBA
type Buffer struct {
	img *image.RGBA
}

var _ types.Canvas = (*Buffer)(nil)

// New creates a black buffer of the given size
func New(width, height int) *Buffer {
	return &Buffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Bounds returns the buffer rectangle, always anchored at the origin
func (b *Buffer) Bounds() image.Rectangle {
	return b.img.Rect
}

// Width returns the buffer width
func (b *Buffer) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the buffer height
func (b *Buffer) Height() int {
	return b.img.Rect.Dy()
}

// Set sets a pixel, ignoring out of bounds coordinates
func (b *Buffer) Set(x, y int, c color.RGBA) {
	b.img.SetRGBA(x, y, c)
}

// RGBAAt returns the colour of a pixel, black when out of bounds
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}

// Clear resets every pixel to black
func (b *Buffer) Clear() {
	clear(b.img.Pix)
}

// Pix returns the raw RGBA bytes, row major, four bytes per pixel
func (b *Buffer) Pix() []byte {
	return b.img.Pix
}

// Image returns the buffer as an image.Image
func (b *Buffer) Image() image.Image {
	return b.img
}

// CopyFrom copies the contents of src, which must have the same size
func (b *Buffer) CopyFrom(src *Buffer) {
	copy(b.img.Pix, src.img.Pix)
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	c := New(b.Width(), b.Height())
	c.CopyFrom(b)
	return c
}

// Lit reports whether any pixel is not black
func (b *Buffer) Lit() bool {
	for i := 0; i < len(b.img.Pix); i += 4 {
		if b.img.Pix[i] != 0 || b.img.Pix[i+1] != 0 || b.img.Pix[i+2] != 0 {
			return true
		}
	}
	return false
}
