// Package mempanel implements a headless panel that keeps presented frames in
// memory. It backs the "null" driver and the tests of the drawing packages.
package mempanel

import (
	"fmt"
	"sync"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
)

// Panel is an in-memory double buffered panel
type Panel struct {
	width  int
	height int
	record bool

	mu     sync.Mutex
	front  *framebuf.Buffer
	frames []*framebuf.Buffer
	swaps  int
	closed bool

	// OnSwap, when set, is called after every swap with the frame now shown.
	// It runs on the caller's goroutine, outside the panel lock.
	OnSwap func(front *framebuf.Buffer)
}

var _ types.Panel = (*Panel)(nil)

// Option configures a Panel
type Option func(*Panel)

// WithRecording keeps a copy of every presented frame
func WithRecording() Option {
	return func(p *Panel) {
		p.record = true
	}
}

// New creates a new in-memory panel
func New(width, height int, opts ...Option) *Panel {
	p := &Panel{
		width:  width,
		height: height,
		front:  framebuf.New(width, height),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the dimensions of the panel
func (p *Panel) Size() (width, height int) {
	return p.width, p.height
}

// Offscreen allocates a new canvas
func (p *Panel) Offscreen() types.Canvas {
	return framebuf.New(p.width, p.height)
}

// Swap shows the given canvas and returns the previous front buffer
func (p *Panel) Swap(offscreen types.Canvas) (types.Canvas, error) {
	buf, ok := offscreen.(*framebuf.Buffer)
	if !ok {
		return nil, fmt.Errorf("unsupported canvas type %T", offscreen)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("panel is closed")
	}
	prev := p.front
	p.front = buf
	p.swaps++
	if p.record {
		p.frames = append(p.frames, buf.Clone())
	}
	onSwap := p.OnSwap
	p.mu.Unlock()

	if onSwap != nil {
		onSwap(buf)
	}
	return prev, nil
}

// Front returns a copy of the frame currently shown
func (p *Panel) Front() *framebuf.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.front.Clone()
}

// Frames returns the recorded frames
func (p *Panel) Frames() []*framebuf.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*framebuf.Buffer(nil), p.frames...)
}

// Swaps returns the number of swaps so far
func (p *Panel) Swaps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.swaps
}

// Close closes the panel
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
