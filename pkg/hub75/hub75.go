// Package hub75 drives a HUB75 LED matrix chain from Raspberry Pi GPIO lines
// through the Linux GPIO character device.
//
// The panel is scanned in software: a goroutine shifts out one row pair at a
// time (1 bit per colour channel) and keeps refreshing the latest front
// buffer until Close.
package hub75

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
	"github.com/warthog618/go-gpiocdev"
)

// Threshold is the channel intensity at which an LED is switched on
const Threshold = 128

// MaxOnTime is how long a row stays lit at full brightness
const MaxOnTime = 200 * time.Microsecond

// Data bits of one column, as shifted out on R1..B2
const (
	bitR1 = 1 << iota
	bitG1
	bitB1
	bitR2
	bitG2
	bitB2
)

// line is the part of *gpiocdev.Line the panel uses
type line interface {
	SetValue(value int) error
	Close() error
}

// Panel is a HUB75 matrix chain
type Panel struct {
	width  int
	height int
	pins   types.HUB75Pins
	lines  map[int]line
	onTime time.Duration

	mu     sync.Mutex
	front  *framebuf.Buffer
	closed bool

	stop chan struct{}
	done chan struct{}
}

var _ types.Panel = (*Panel)(nil)

// Open requests the HUB75 lines on cfg.Chip and starts refreshing the panel
func Open(cfg types.PanelConfig) (*Panel, error) {
	if cfg.Height%2 != 0 || cfg.Height/2 > 32 {
		return nil, fmt.Errorf("unsupported panel height %d", cfg.Height)
	}
	chip := cfg.Chip
	if chip == "" {
		chip = "gpiochip0"
	}

	lines := make(map[int]line)
	for _, pin := range pinList(cfg.Pins) {
		if _, ok := lines[pin]; ok {
			continue
		}
		l, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0))
		if err != nil {
			closeLines(lines)
			return nil, fmt.Errorf("failed to request GPIO line %d on %s: %w", pin, chip, err)
		}
		lines[pin] = l
	}
	log.Printf("Requested %d GPIO lines on %s", len(lines), chip)

	p := newPanel(cfg, lines)
	go p.refresh()
	return p, nil
}

func newPanel(cfg types.PanelConfig, lines map[int]line) *Panel {
	return &Panel{
		width:  cfg.Width,
		height: cfg.Height,
		pins:   cfg.Pins,
		lines:  lines,
		onTime: onTime(cfg.Brightness),
		front:  framebuf.New(cfg.Width, cfg.Height),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func pinList(p types.HUB75Pins) []int {
	return []int{
		p.R1, p.G1, p.B1,
		p.R2, p.G2, p.B2,
		p.CLK, p.OE, p.LAT,
		p.A, p.B, p.C, p.D, p.E,
	}
}

// onTime maps brightness 0-255 to the lit time of each row
func onTime(brightness int) time.Duration {
	brightness = max(0, min(brightness, 255))
	return MaxOnTime * time.Duration(brightness) / 255
}

// Size returns the dimensions of the chain
func (p *Panel) Size() (width, height int) {
	return p.width, p.height
}

// Offscreen allocates a new canvas
func (p *Panel) Offscreen() types.Canvas {
	return framebuf.New(p.width, p.height)
}

// Swap makes the canvas the frame being scanned and returns the previous one
func (p *Panel) Swap(offscreen types.Canvas) (types.Canvas, error) {
	buf, ok := offscreen.(*framebuf.Buffer)
	if !ok {
		return nil, fmt.Errorf("unsupported canvas type %T", offscreen)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, fmt.Errorf("panel is closed")
	}
	prev := p.front
	p.front = buf
	return prev, nil
}

// Close blanks the panel, stops the refresh and releases the GPIO lines
func (p *Panel) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.stop)
	<-p.done

	if err := p.setPin(p.pins.OE, 1); err != nil {
		log.Printf("Error blanking panel: %v", err)
	}
	closeLines(p.lines)
	return nil
}

func closeLines(lines map[int]line) {
	for pin, l := range lines {
		if err := l.Close(); err != nil {
			log.Printf("Error closing pin %d: %v", pin, err)
		}
	}
}

// refresh scans the front buffer until stopped
func (p *Panel) refresh() {
	defer close(p.done)

	scan := framebuf.New(p.width, p.height)
	bits := make([]uint8, p.width)
	failing := false
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		p.mu.Lock()
		scan.CopyFrom(p.front)
		p.mu.Unlock()

		err := p.scanFrame(scan, bits)
		if err != nil && !failing {
			log.Printf("Error refreshing panel: %v", err)
		}
		failing = err != nil
	}
}

// scanFrame shows every row pair of buf once
func (p *Panel) scanFrame(buf *framebuf.Buffer, bits []uint8) error {
	for row := 0; row < p.height/2; row++ {
		encodeRow(buf, row, bits)
		if err := p.writeRow(row, bits); err != nil {
			return err
		}
	}
	return nil
}

// encodeRow packs row and row+height/2 of buf into one data byte per column
func encodeRow(buf *framebuf.Buffer, row int, bits []uint8) {
	lower := row + buf.Height()/2
	for x := range bits {
		var b uint8
		top := buf.RGBAAt(x, row)
		bottom := buf.RGBAAt(x, lower)
		if top.R >= Threshold {
			b |= bitR1
		}
		if top.G >= Threshold {
			b |= bitG1
		}
		if top.B >= Threshold {
			b |= bitB1
		}
		if bottom.R >= Threshold {
			b |= bitR2
		}
		if bottom.G >= Threshold {
			b |= bitG2
		}
		if bottom.B >= Threshold {
			b |= bitB2
		}
		bits[x] = b
	}
}

// writeRow shifts one row pair out, latches it and lights it for onTime
func (p *Panel) writeRow(row int, bits []uint8) error {
	// Disable output during data change
	if err := p.setPin(p.pins.OE, 1); err != nil {
		return err
	}

	for _, b := range bits {
		data := []struct {
			pin, bit int
		}{
			{p.pins.R1, bitR1}, {p.pins.G1, bitG1}, {p.pins.B1, bitB1},
			{p.pins.R2, bitR2}, {p.pins.G2, bitG2}, {p.pins.B2, bitB2},
		}
		for _, d := range data {
			if err := p.setPin(d.pin, boolInt(int(b)&d.bit != 0)); err != nil {
				return err
			}
		}
		if err := p.pulse(p.pins.CLK); err != nil {
			return err
		}
	}

	address := []int{p.pins.A, p.pins.B, p.pins.C, p.pins.D, p.pins.E}
	for i, pin := range address {
		if err := p.setPin(pin, (row>>i)&1); err != nil {
			return err
		}
	}
	if err := p.pulse(p.pins.LAT); err != nil {
		return err
	}

	if p.onTime == 0 {
		return nil
	}
	if err := p.setPin(p.pins.OE, 0); err != nil {
		return err
	}
	time.Sleep(p.onTime)
	return p.setPin(p.pins.OE, 1)
}

func (p *Panel) pulse(pin int) error {
	if err := p.setPin(pin, 1); err != nil {
		return err
	}
	return p.setPin(pin, 0)
}

// setPin sets the value of a GPIO pin
func (p *Panel) setPin(pin int, value int) error {
	l, ok := p.lines[pin]
	if !ok {
		return nil // Pin not found, silently ignore
	}
	return l.SetValue(value)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
