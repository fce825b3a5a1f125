package types

import (
	"image"
	"image/color"
)

// Canvas is a single frame buffer owned by a panel
type Canvas interface {
	// Bounds returns the addressable area of the canvas
	Bounds() image.Rectangle
	// Set sets a pixel, silently ignoring coordinates outside Bounds
	Set(x, y int, c color.RGBA)
	// Clear resets every pixel to black
	Clear()
}

// Panel represents a display matrix with double buffering
type Panel interface {
	// Size returns the panel dimensions in pixels
	Size() (width, height int)
	// Offscreen allocates a canvas compatible with Swap
	Offscreen() Canvas
	// Swap shows the given canvas and returns the one previously shown
	Swap(offscreen Canvas) (Canvas, error)
	// Close releases the panel
	Close() error
}
