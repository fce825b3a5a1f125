package display

import (
	"image/color"
	"iter"
	"log"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"tinygo.org/x/drivers"
)

// Frame is the double buffered drawing surface of a panel. Writes go to the
// offscreen canvas; Present swaps it with the panel's visible canvas.
// A Frame is not safe for concurrent use.
type Frame struct {
	panel     types.Panel
	offscreen types.Canvas
	width     int
	height    int

	// swap failures are logged once per run of consecutive failures
	swapFailed bool
}

var _ drivers.Displayer = (*Frame)(nil)

// NewFrame allocates the offscreen canvas of the given panel
func NewFrame(panel types.Panel) *Frame {
	width, height := panel.Size()
	offscreen := panel.Offscreen()
	offscreen.Clear()
	return &Frame{
		panel:     panel,
		offscreen: offscreen,
		width:     width,
		height:    height,
	}
}

// GetDimensions returns the dimensions of the panel
func (f *Frame) GetDimensions() (width, height int) {
	return f.width, f.height
}

// Write merges the pixels into the offscreen canvas. The last write to a
// coordinate wins and pixels outside the panel are dropped.
func (f *Frame) Write(pixels iter.Seq[types.Pixel]) {
	for p := range pixels {
		f.set(p.X, p.Y, p.C)
	}
}

func (f *Frame) set(x, y int, c color.Color) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height || c == nil {
		return
	}
	f.offscreen.Set(x, y, toNative(c))
}

// Present swaps the offscreen canvas onto the panel and clears the canvas
// that becomes writable next
func (f *Frame) Present() {
	next, err := f.panel.Swap(f.offscreen)
	if err != nil {
		if !f.swapFailed {
			log.Printf("Failed to swap frame: %v", err)
		}
		f.swapFailed = true
		f.offscreen.Clear()
		return
	}
	f.swapFailed = false

	next.Clear()
	f.offscreen = next
}

// Size implements drivers.Displayer
func (f *Frame) Size() (x, y int16) {
	return int16(f.width), int16(f.height)
}

// SetPixel implements drivers.Displayer
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	f.set(int(x), int(y), c)
}

// Display implements drivers.Displayer
func (f *Frame) Display() error {
	f.Present()
	return nil
}

// toNative converts a colour to the panel's native representation
func toNative(c color.Color) color.RGBA {
	if v, ok := c.(color.RGBA); ok {
		return v
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
