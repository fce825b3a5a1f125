// Package termpanel shows panel frames in a terminal using 24-bit colour
// half blocks, two pixel rows per text line.
package termpanel

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"sync"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
	"golang.org/x/term"
)

// ANSI sequences
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetStyle  = "\x1b[0m"
	upperHalf   = "▀"
)

// fdWriter is an output with a file descriptor, such as *os.File
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// Panel prints every presented frame to a terminal
type Panel struct {
	width  int
	height int
	out    io.Writer

	mu      sync.Mutex
	front   *framebuf.Buffer
	buf     bytes.Buffer
	started bool
	closed  bool
}

var _ types.Panel = (*Panel)(nil)

// Option configures a Panel
type Option func(*options)

type options struct {
	force bool
}

// WithForce writes to out even when it is not a terminal
func WithForce() Option {
	return func(o *options) {
		o.force = true
	}
}

// New creates a terminal panel writing to out
func New(width, height int, out io.Writer, opts ...Option) (*Panel, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !o.force {
		f, ok := out.(fdWriter)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("output is not a terminal")
		}
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil {
			if cols < width || rows < (height+1)/2 {
				log.Printf("Terminal is %dx%d, panel needs %dx%d", cols, rows, width, (height+1)/2)
			}
		}
	}

	return &Panel{
		width:  width,
		height: height,
		out:    out,
		front:  framebuf.New(width, height),
	}, nil
}

// Size returns the dimensions of the panel
func (p *Panel) Size() (width, height int) {
	return p.width, p.height
}

// Offscreen allocates a new canvas
func (p *Panel) Offscreen() types.Canvas {
	return framebuf.New(p.width, p.height)
}

// Swap prints the canvas and returns the previous front buffer
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

	p.buf.Reset()
	if !p.started {
		p.buf.WriteString(clearScreen + hideCursor)
		p.started = true
	}
	p.buf.WriteString(cursorHome)
	encode(&p.buf, buf)
	if _, err := p.out.Write(p.buf.Bytes()); err != nil {
		return prev, fmt.Errorf("failed to write frame: %w", err)
	}
	return prev, nil
}

// Close restores the cursor
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if !p.started {
		return nil
	}
	_, err := io.WriteString(p.out, resetStyle+showCursor+"\n")
	return err
}

// encode writes buf as lines of half blocks: the foreground colour is the
// upper pixel and the background the lower one
func encode(w *bytes.Buffer, buf *framebuf.Buffer) {
	width, height := buf.Width(), buf.Height()
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := buf.RGBAAt(x, y)
			var bottom color.RGBA
			if y+1 < height {
				bottom = buf.RGBAAt(x, y+1)
			}
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B, upperHalf)
		}
		w.WriteString(resetStyle + "\n")
	}
}
