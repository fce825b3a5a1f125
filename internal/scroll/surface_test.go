package scroll

import (
	"image/color"
	"iter"
	"slices"
	"testing"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

type recordingTarget struct {
	width    int
	pixels   []types.Pixel
	presents int
}

func (r *recordingTarget) GetDimensions() (int, int) { return r.width, 8 }
func (r *recordingTarget) Present()                  { r.presents++ }

func (r *recordingTarget) Write(pixels iter.Seq[types.Pixel]) {
	r.pixels = append(r.pixels, slices.Collect(pixels)...)
}

func xs(pixels []types.Pixel) []int {
	out := make([]int, len(pixels))
	for i, p := range pixels {
		out[i] = p.X
	}
	return out
}

func TestSurfaceDrawTranslates(t *testing.T) {
	target := &recordingTarget{width: 10}
	s := NewSurface(target, true)
	s.SetAbsolute(-3)

	s.Draw(slices.Values([]types.Pixel{
		{X: 0, Y: 1, C: color.White},
		{X: 5, Y: 2, C: color.White},
		{X: 9, Y: 3, C: color.White},
	}))

	if got, want := xs(target.pixels), []int{7, 2, 6}; !slices.Equal(got, want) {
		t.Errorf("translated x = %v, want %v", got, want)
	}
	for i, p := range target.pixels {
		if p.Y != i+1 {
			t.Errorf("pixel %d y = %d, want %d", i, p.Y, i+1)
		}
	}
}

func TestSurfaceAdvanceBy(t *testing.T) {
	tests := []struct {
		name  string
		wrap  bool
		width int
		start int
		delta int
		times int
		want  int
	}{
		{name: "wrap keeps offset in range", wrap: true, width: 12, start: 0, delta: -1, times: 1, want: 11},
		{name: "wrap full cycle", wrap: true, width: 12, start: 5, delta: -1, times: 12, want: 5},
		{name: "wrap forward", wrap: true, width: 12, start: 10, delta: 3, times: 1, want: 1},
		{name: "no wrap accumulates", wrap: false, width: 12, start: 10, delta: -1, times: 30, want: -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(&recordingTarget{width: 10}, tt.wrap)
			s.SetContentWidth(tt.width)
			s.SetAbsolute(tt.start)
			for i := 0; i < tt.times; i++ {
				s.AdvanceBy(tt.delta)
			}
			if s.Offset() != tt.want {
				t.Errorf("Offset() = %d, want %d", s.Offset(), tt.want)
			}
		})
	}
}

func TestSurfaceContentWidth(t *testing.T) {
	s := NewSurface(&recordingTarget{width: 32}, false)
	if s.ContentWidth() != 32 {
		t.Errorf("default ContentWidth() = %d, want 32", s.ContentWidth())
	}

	s.SetContentWidth(8)
	if s.ContentWidth() != 32 {
		t.Errorf("SetContentWidth(8) gave %d, want clamp to 32", s.ContentWidth())
	}
	s.SetContentWidth(100)
	if s.ContentWidth() != 100 {
		t.Errorf("SetContentWidth(100) gave %d", s.ContentWidth())
	}
	s.SetContentWidthRaw(8)
	if s.ContentWidth() != 8 {
		t.Errorf("SetContentWidthRaw(8) gave %d", s.ContentWidth())
	}
}

func TestSurfaceStateChangesDoNoIO(t *testing.T) {
	target := &recordingTarget{width: 16}
	s := NewSurface(target, true)

	s.AdvanceBy(-4)
	s.SetAbsolute(3)
	s.SetContentWidth(40)
	s.SetWrap(false)

	if len(target.pixels) != 0 || target.presents != 0 {
		t.Errorf("state changes touched the target: %d pixels, %d presents", len(target.pixels), target.presents)
	}
	if s.Wrap() {
		t.Error("Wrap() = true after SetWrap(false)")
	}

	s.Present()
	if target.presents != 1 {
		t.Errorf("presents = %d, want 1", target.presents)
	}
}
