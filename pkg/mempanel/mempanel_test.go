package mempanel

import (
	"image/color"
	"testing"

	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
)

func TestPanelSwap(t *testing.T) {
	p := New(8, 4, WithRecording())

	off := p.Offscreen()
	off.Set(0, 0, color.RGBA{255, 0, 0, 255})

	prev, err := p.Swap(off)
	if err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if prev == off {
		t.Error("Swap() returned the canvas that was passed in")
	}
	if got := p.Front().RGBAAt(0, 0); got.R != 255 {
		t.Errorf("Front().RGBAAt(0, 0) = %v, want red", got)
	}
	if p.Swaps() != 1 || len(p.Frames()) != 1 {
		t.Errorf("Swaps() = %d, Frames() = %d, want 1, 1", p.Swaps(), len(p.Frames()))
	}

	// recorded frames are copies
	off.Clear()
	if !p.Frames()[0].Lit() {
		t.Error("recorded frame changed after the canvas was cleared")
	}
}

func TestPanelOnSwap(t *testing.T) {
	p := New(2, 2)
	calls := 0
	p.OnSwap = func(front *framebuf.Buffer) {
		calls++
		// the hook may call back into the panel
		_ = p.Swaps()
	}

	for i := 0; i < 3; i++ {
		if _, err := p.Swap(p.Offscreen()); err != nil {
			t.Fatalf("Swap() error = %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("OnSwap called %d times, want 3", calls)
	}
}

func TestPanelClosed(t *testing.T) {
	p := New(2, 2)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := p.Swap(p.Offscreen()); err == nil {
		t.Error("Swap() on closed panel did not return error")
	}
}
