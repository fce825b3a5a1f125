// Package winpanel shows panel frames in a desktop window, each LED drawn as
// a scale x scale block.
package winpanel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/framebuf"
	"github.com/hajimehoshi/ebiten/v2"
)

// Panel mirrors the front buffer into an ebiten window
type Panel struct {
	width  int
	height int
	scale  int
	title  string

	mu     sync.Mutex
	front  *framebuf.Buffer
	closed bool
}

var _ types.Panel = (*Panel)(nil)

// New creates a window panel. Nothing is shown until Run.
func New(width, height, scale int) *Panel {
	if scale < 1 {
		scale = 1
	}
	return &Panel{
		width:  width,
		height: height,
		scale:  scale,
		title:  "LED Marquee",
		front:  framebuf.New(width, height),
	}
}

// SetTitle sets the window title. Call before Run.
func (p *Panel) SetTitle(title string) {
	p.title = title
}

// Size returns the dimensions of the panel
func (p *Panel) Size() (width, height int) {
	return p.width, p.height
}

// Offscreen allocates a new canvas
func (p *Panel) Offscreen() types.Canvas {
	return framebuf.New(p.width, p.height)
}

// Swap makes the canvas the frame shown by the window
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

// Close makes Run return at the next window update
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Panel) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// snapshot copies the front buffer pixels into dst
func (p *Panel) snapshot(dst []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(dst, p.front.Pix())
}

// Run opens the window and blocks until it is closed by the user or by
// Close. It must be called from the main goroutine.
func (p *Panel) Run() error {
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowSize(p.width*p.scale, p.height*p.scale)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(&game{p: p, pix: make([]byte, 4*p.width*p.height)})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	p   *Panel
	pix []byte
	img *ebiten.Image
}

func (g *game) Update() error {
	if g.p.isClosed() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.p.width, g.p.height)
	}
	g.p.snapshot(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.p.width, g.p.height
}
