package scroll

import (
	"iter"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

// Target is what a Surface draws onto
type Target interface {
	GetDimensions() (width, height int)
	Write(pixels iter.Seq[types.Pixel])
	Present()
}

// Surface wraps a Target and translates every draw by the current scroll
// offset. The scroll state is only changed through its methods.
type Surface struct {
	target     Target
	panelWidth int

	offset       int
	contentWidth int
	wrap         bool
}

// NewSurface creates a surface with zero offset and a content width equal to
// the panel width
func NewSurface(target Target, wrap bool) *Surface {
	width, _ := target.GetDimensions()
	return &Surface{
		target:       target,
		panelWidth:   width,
		contentWidth: width,
		wrap:         wrap,
	}
}

// Draw writes the pixels to the target, each x coordinate translated by the
// scroll state. y is unchanged.
func (s *Surface) Draw(pixels iter.Seq[types.Pixel]) {
	offset, width, wrap := s.offset, s.contentWidth, s.wrap
	s.target.Write(func(yield func(types.Pixel) bool) {
		for p := range pixels {
			p.X = Remap(p.X, offset, width, wrap)
			if !yield(p) {
				return
			}
		}
	})
}

// DrawImage draws all pixels of an image
func (s *Surface) DrawImage(img types.Image) {
	s.Draw(img.Pixels())
}

// Present shows what has been drawn since the last Present
func (s *Surface) Present() {
	s.target.Present()
}

// AdvanceBy moves the offset by delta. In wrap mode the offset is kept in
// [0, content width).
func (s *Surface) AdvanceBy(delta int) {
	if s.wrap && s.contentWidth > 0 {
		s.offset = mod(s.offset+delta, s.contentWidth)
		return
	}
	s.offset += delta
}

// SetAbsolute sets the offset
func (s *Surface) SetAbsolute(x int) {
	s.offset = x
}

// SetWrap selects looping (true) or slide-off (false) scrolling
func (s *Surface) SetWrap(wrap bool) {
	s.wrap = wrap
}

// SetContentWidth sets the wraparound width, raising it to the panel width if
// smaller so the loop seam never shows on the panel
func (s *Surface) SetContentWidth(width int) {
	s.contentWidth = max(width, s.panelWidth)
}

// SetContentWidthRaw sets the wraparound width verbatim
func (s *Surface) SetContentWidthRaw(width int) {
	s.contentWidth = width
}

// Offset returns the current offset
func (s *Surface) Offset() int {
	return s.offset
}

// ContentWidth returns the wraparound width
func (s *Surface) ContentWidth() int {
	return s.contentWidth
}

// Wrap reports whether wrap mode is on
func (s *Surface) Wrap() bool {
	return s.wrap
}

// PanelWidth returns the width of the underlying panel
func (s *Surface) PanelWidth() int {
	return s.panelWidth
}
