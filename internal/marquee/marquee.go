// Package marquee sequences scrolling and static display of images on a
// scrollable surface, pacing every frame to a fixed budget.
package marquee

import (
	"context"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/pace"
	"github.com/fkcurrie/led-marquee-golang/internal/scroll"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

// DefaultFrameInterval is used when the configuration leaves it unset
const DefaultFrameInterval = 20 * time.Millisecond

// Controller drives a scroll.Surface through the marquee modes. It is not
// safe for concurrent use; one mode runs at a time.
type Controller struct {
	display    *scroll.Surface
	panelWidth int
	pacer      *pace.Pacer
	now        func() time.Time
}

// New creates a controller for the given surface
func New(display *scroll.Surface, cfg types.PanelConfig) *Controller {
	interval := cfg.FrameInterval.Std()
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Controller{
		display:    display,
		panelWidth: display.PanelWidth(),
		pacer:      pace.NewPacer(interval),
		now:        time.Now,
	}
}

// ScrollNTimes scrolls every image in turn across the panel, n times over.
// Each image enters from the right edge and leaves completely off the left,
// taking image width plus panel width frames.
func (c *Controller) ScrollNTimes(ctx context.Context, images []types.Image, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.display.SetWrap(false)
	for pass := 0; pass < n; pass++ {
		for _, img := range images {
			c.display.SetAbsolute(c.panelWidth)
			width := img.Width()
			c.display.SetContentWidth(width)

			for i := 0; i < width+c.panelWidth; i++ {
				if err := c.step(ctx, img); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ScrollForDuration loops the image across the panel until d has elapsed.
// One panel width of padding keeps the loop seam off the panel.
func (c *Controller) ScrollForDuration(ctx context.Context, img types.Image, d time.Duration) error {
	c.display.SetWrap(true)
	c.display.SetAbsolute(c.panelWidth)
	c.display.SetContentWidth(img.Width() + c.panelWidth)

	start := c.now()
	for c.now().Sub(start) < d {
		if err := c.step(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

// DisplayForDuration shows the image without scrolling for d
func (c *Controller) DisplayForDuration(ctx context.Context, img types.Image, d time.Duration) error {
	c.display.SetAbsolute(0)
	c.display.SetContentWidth(img.Width())
	c.display.DrawImage(img)
	c.display.Present()
	return pace.Sleep(ctx, d)
}

// step advances one pixel to the left, draws and presents one frame
func (c *Controller) step(ctx context.Context, img types.Image) error {
	c.pacer.Begin()
	c.display.AdvanceBy(-1)
	c.display.DrawImage(img)
	c.display.Present()
	return c.pacer.Wait(ctx)
}
