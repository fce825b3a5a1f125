// Package content turns image files and text into drawable bitmaps.
package content

import (
	"image"
	"image/color"
	"image/draw"
	"iter"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

// Bitmap is decoded content anchored at the origin
type Bitmap struct {
	img *image.RGBA
}

var _ types.Image = (*Bitmap)(nil)

// NewBitmap copies img into a bitmap with its top left corner at (0, 0)
func NewBitmap(img image.Image) *Bitmap {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Bitmap{img: rgba}
}

// Width returns the bitmap width in pixels
func (b *Bitmap) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the bitmap height in pixels
func (b *Bitmap) Height() int {
	return b.img.Rect.Dy()
}

// Pixels yields every pixel that is not fully transparent
func (b *Bitmap) Pixels() iter.Seq[types.Pixel] {
	return func(yield func(types.Pixel) bool) {
		w, h := b.Width(), b.Height()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := b.img.RGBAAt(x, y)
				if c.A == 0 {
					continue
				}
				if !yield(types.Pixel{X: x, Y: y, C: c}) {
					return
				}
			}
		}
	}
}

// At returns the colour at (x, y)
func (b *Bitmap) At(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}
