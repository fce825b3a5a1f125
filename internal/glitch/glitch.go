// Package glitch runs a glitch session: a clean image scrolls continuously
// while short bursts of alternate images flicker through in random order.
//
// Two loops share one scroll surface and the index of the image on show. The
// scroll loop advances the surface on a fixed tick; the glitch loop switches
// the selected image. Every select, draw and present happens inside a single
// critical section, so a frame never mixes two images.
package glitch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/pace"
	"github.com/fkcurrie/led-marquee-golang/internal/scroll"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"golang.org/x/sync/errgroup"
)

// ErrNoImages is returned when a session is created without a clean image
var ErrNoImages = errors.New("glitch session needs at least one image")

// Default timings, used for zero fields of types.GlitchConfig
const (
	DefaultScrollTick = 8 * time.Millisecond
	DefaultCleanMin   = 2 * time.Second
	DefaultCleanMax   = 6 * time.Second
	DefaultGlitchMin  = 30 * time.Millisecond
	DefaultGlitchMax  = 120 * time.Millisecond
)

// state is shared by both loops and only touched through stage.Do
type state struct {
	selected int
	surface  *scroll.Surface
}

// stage serialises access to the shared state
type stage struct {
	mu sync.Mutex
	st state
}

// Do runs fn with exclusive access to the shared state
func (s *stage) Do(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}

// Session is one glitch animation
type Session struct {
	stage  stage
	images []types.Image
	cfg    types.GlitchConfig
	rng    *rand.Rand

	// onSelect is called inside the critical section after each selection
	onSelect func(index int)
}

// Option configures a Session
type Option func(*Session)

// WithRand sets the random source used for shuffles and sleep durations
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rng = r
	}
}

// New creates a session. images[0] is the clean image and the rest are the
// alternates shown during a glitch.
func New(surface *scroll.Surface, images []types.Image, cfg types.GlitchConfig, opts ...Option) (*Session, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	s := &Session{
		images: images,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	s.stage.st.surface = surface
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validate(cfg *types.GlitchConfig) error {
	defaults := []struct {
		field *types.Duration
		value time.Duration
	}{
		{&cfg.ScrollTick, DefaultScrollTick},
		{&cfg.CleanMin, DefaultCleanMin},
		{&cfg.CleanMax, DefaultCleanMax},
		{&cfg.GlitchMin, DefaultGlitchMin},
		{&cfg.GlitchMax, DefaultGlitchMax},
	}
	for _, d := range defaults {
		if *d.field == 0 {
			*d.field = types.Duration(d.value)
		}
	}

	if cfg.CleanMax < cfg.CleanMin {
		return fmt.Errorf("clean interval max %v is below min %v", cfg.CleanMax, cfg.CleanMin)
	}
	if cfg.GlitchMax < cfg.GlitchMin {
		return fmt.Errorf("glitch interval max %v is below min %v", cfg.GlitchMax, cfg.GlitchMin)
	}
	if cfg.ScrollTick < 0 || cfg.CleanMin < 0 || cfg.GlitchMin < 0 || cfg.Duration < 0 {
		return fmt.Errorf("glitch timings must not be negative")
	}
	return nil
}

// Run plays the session until its duration elapses, or until ctx is done
// when the duration is zero. It returns nil when the duration elapses and the
// context error otherwise.
func (s *Session) Run(ctx context.Context) error {
	s.stage.Do(func(st *state) {
		width := 0
		for _, img := range s.images {
			width = max(width, img.Width())
		}
		st.selected = 0
		st.surface.SetWrap(true)
		st.surface.SetContentWidth(width)
	})

	runCtx := ctx
	if s.cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Duration.Std())
		defer cancel()
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return s.scrollLoop(gctx)
	})
	g.Go(func() error {
		return s.glitchLoop(gctx)
	})

	err := g.Wait()
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// scrollLoop advances the shared surface by one pixel per tick and redraws
// whichever image is selected
func (s *Session) scrollLoop(ctx context.Context) error {
	for {
		s.stage.Do(func(st *state) {
			st.surface.AdvanceBy(-1)
			st.surface.DrawImage(s.images[st.selected])
			st.surface.Present()
		})
		if err := pace.Sleep(ctx, s.cfg.ScrollTick.Std()); err != nil {
			return err
		}
	}
}

// glitchLoop alternates a clean interval with a burst of every alternate
// image in shuffled order
func (s *Session) glitchLoop(ctx context.Context) error {
	alternates := make([]int, len(s.images)-1)
	for i := range alternates {
		alternates[i] = i + 1
	}

	for {
		s.show(0)
		if err := pace.Sleep(ctx, s.uniform(s.cfg.CleanMin, s.cfg.CleanMax)); err != nil {
			return err
		}

		s.shuffle(alternates)
		for _, index := range alternates {
			s.show(index)
			if err := pace.Sleep(ctx, s.uniform(s.cfg.GlitchMin, s.cfg.GlitchMax)); err != nil {
				return err
			}
		}
	}
}

// show selects an image and redraws it at the current offset
func (s *Session) show(index int) {
	s.stage.Do(func(st *state) {
		st.selected = index
		st.surface.DrawImage(s.images[index])
		st.surface.Present()
		if s.onSelect != nil {
			s.onSelect(index)
		}
	})
}

// shuffle permutes indices uniformly (Fisher-Yates)
func (s *Session) shuffle(indices []int) {
	s.rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// uniform returns a duration drawn uniformly from [lo, hi]
func (s *Session) uniform(lo, hi types.Duration) time.Duration {
	if hi <= lo {
		return lo.Std()
	}
	return lo.Std() + time.Duration(s.rng.Int64N(int64(hi-lo)+1))
}
