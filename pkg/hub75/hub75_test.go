package hub75

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
)

// fakeLine records the values written to one GPIO line
type fakeLine struct {
	mu     sync.Mutex
	values []int
	closed bool
}

func (l *fakeLine) SetValue(v int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = append(l.values, v)
	return nil
}

func (l *fakeLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeLine) last() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.values) == 0 {
		return -1
	}
	return l.values[len(l.values)-1]
}

func (l *fakeLine) rises() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, v := range l.values {
		n += v
	}
	return n
}

func testPanel(width, height, brightness int) (*Panel, map[int]*fakeLine) {
	cfg := types.PanelConfig{
		Width:      width,
		Height:     height,
		Brightness: brightness,
		Pins:       config.DefaultPins(),
	}
	fakes := make(map[int]*fakeLine)
	lines := make(map[int]line)
	for _, pin := range pinList(cfg.Pins) {
		fakes[pin] = &fakeLine{}
		lines[pin] = fakes[pin]
	}
	return newPanel(cfg, lines), fakes
}

func TestEncodeRow(t *testing.T) {
	buf := framebuf.New(4, 4)
	buf.Set(0, 0, color.RGBA{255, 0, 0, 255})
	buf.Set(1, 0, color.RGBA{0, 200, 127, 255})
	buf.Set(2, 2, color.RGBA{0, 0, 128, 255})
	buf.Set(3, 0, color.RGBA{255, 255, 255, 255})
	buf.Set(3, 2, color.RGBA{255, 255, 255, 255})

	bits := make([]uint8, 4)
	encodeRow(buf, 0, bits)

	want := []uint8{
		bitR1,
		bitG1,
		bitB2,
		bitR1 | bitG1 | bitB1 | bitR2 | bitG2 | bitB2,
	}
	for x := range want {
		if bits[x] != want[x] {
			t.Errorf("column %d = %06b, want %06b", x, bits[x], want[x])
		}
	}

	encodeRow(buf, 1, bits)
	for x, b := range bits {
		if b != 0 {
			t.Errorf("row 1 column %d = %06b, want 0", x, b)
		}
	}
}

func TestOnTime(t *testing.T) {
	tests := []struct {
		brightness int
		want       time.Duration
	}{
		{-5, 0},
		{0, 0},
		{255, MaxOnTime},
		{300, MaxOnTime},
		{51, MaxOnTime / 5},
	}

	for _, tt := range tests {
		if got := onTime(tt.brightness); got != tt.want {
			t.Errorf("onTime(%d) = %v, want %v", tt.brightness, got, tt.want)
		}
	}
}

func TestWriteRow(t *testing.T) {
	p, lines := testPanel(8, 16, 255)
	pins := p.pins

	bits := make([]uint8, 8)
	bits[2] = bitR1 | bitB2
	if err := p.writeRow(5, bits); err != nil {
		t.Fatalf("writeRow() error = %v", err)
	}

	if got := lines[pins.CLK].rises(); got != 8 {
		t.Errorf("clock pulses = %d, want 8", got)
	}
	if got := lines[pins.LAT].rises(); got != 1 {
		t.Errorf("latch pulses = %d, want 1", got)
	}
	if got := lines[pins.R1].rises(); got != 1 {
		t.Errorf("R1 high %d times, want 1", got)
	}
	if got := lines[pins.B2].rises(); got != 1 {
		t.Errorf("B2 high %d times, want 1", got)
	}
	if got := lines[pins.G1].rises(); got != 0 {
		t.Errorf("G1 high %d times, want 0", got)
	}

	// row 5 = 0b00101
	address := []struct {
		name string
		pin  int
		want int
	}{
		{"A", pins.A, 1}, {"B", pins.B, 0}, {"C", pins.C, 1}, {"D", pins.D, 0}, {"E", pins.E, 0},
	}
	for _, a := range address {
		if got := lines[a.pin].last(); got != a.want {
			t.Errorf("address %s = %d, want %d", a.name, got, a.want)
		}
	}
	if got := lines[pins.OE].last(); got != 1 {
		t.Errorf("OE = %d after row, want 1 (blanked)", got)
	}
}

func TestWriteRowDark(t *testing.T) {
	p, lines := testPanel(4, 8, 0)
	if err := p.writeRow(0, make([]uint8, 4)); err != nil {
		t.Fatalf("writeRow() error = %v", err)
	}
	for _, v := range lines[p.pins.OE].values {
		if v != 1 {
			t.Fatal("output enabled at zero brightness")
		}
	}
}

func TestSwap(t *testing.T) {
	p, _ := testPanel(4, 4, 10)

	next := p.Offscreen()
	prev, err := p.Swap(next)
	if err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if prev == next {
		t.Error("Swap() returned the canvas it was given")
	}

	if _, err := p.Swap(badCanvas{}); err == nil {
		t.Error("Swap() accepted a foreign canvas")
	}
}

type badCanvas struct{ types.Canvas }

func TestRefreshAndClose(t *testing.T) {
	p, lines := testPanel(4, 4, 255)
	go p.refresh()

	front := p.Offscreen()
	front.Set(0, 0, color.RGBA{255, 0, 0, 255})
	if _, err := p.Swap(front); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for lines[p.pins.R1].rises() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("lit pixel never shifted out")
		}
		time.Sleep(time.Millisecond)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	for pin, l := range lines {
		if !l.closed {
			t.Errorf("pin %d not released", pin)
		}
	}
	if got := lines[p.pins.OE].last(); got != 1 {
		t.Errorf("OE = %d after Close, want 1", got)
	}
	if _, err := p.Swap(p.Offscreen()); err == nil {
		t.Error("Swap() after Close did not return error")
	}
}
