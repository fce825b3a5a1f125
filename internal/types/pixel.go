package types

import (
	"image/color"
	"iter"
)

// Pixel is a single coloured point in content coordinates
type Pixel struct {
	X int
	Y int
	C color.Color
}

// Image is drawable content with a known pixel size
type Image interface {
	Width() int
	Height() int
	// Pixels yields every lit pixel of the content
	Pixels() iter.Seq[Pixel]
}

// RGB565 is a 16-bit colour as used by small SPI displays
type RGB565 uint16

// NewRGB565 packs 8-bit channels into an RGB565 value
func NewRGB565(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c>>11) & 0x1F
	g8 := uint32(c>>5) & 0x3F
	b8 := uint32(c) & 0x1F
	r8 = r8<<3 | r8>>2
	g8 = g8<<2 | g8>>4
	b8 = b8<<3 | b8>>2
	return r8 | r8<<8, g8 | g8<<8, b8 | b8<<8, 0xFFFF
}
