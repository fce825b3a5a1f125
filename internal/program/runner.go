// Package program runs marquee programs: the step list from the
// configuration, or a Lua script calling the same actions.
package program

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/content"
	"github.com/fkcurrie/led-marquee-golang/internal/glitch"
	"github.com/fkcurrie/led-marquee-golang/internal/marquee"
	"github.com/fkcurrie/led-marquee-golang/internal/scroll"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

// ErrEmptyProgram is returned when a looping program has no steps
var ErrEmptyProgram = errors.New("program has no steps")

// ErrNoMessages is returned when the messages file has no non-blank lines
var ErrNoMessages = errors.New("no messages")

// Runner executes steps against one surface. Loaded images and messages are
// cached for the life of the runner. It is not safe for concurrent use.
type Runner struct {
	surface    *scroll.Surface
	controller *marquee.Controller
	cfg        *config.Config
	text       *content.TextRenderer
	rng        *rand.Rand
	verbose    bool

	images   map[string]*content.Bitmap
	messages []string

	// onStep is called before each step runs
	onStep func(step types.Step)
}

// Option configures a Runner
type Option func(*Runner)

// WithRand sets the random source for message and glitch shuffles
func WithRand(r *rand.Rand) Option {
	return func(rn *Runner) {
		rn.rng = r
	}
}

// WithVerbose logs every step as it starts
func WithVerbose(verbose bool) Option {
	return func(rn *Runner) {
		rn.verbose = verbose
	}
}

// New creates a runner drawing on surface with the given configuration
func New(surface *scroll.Surface, cfg *config.Config, opts ...Option) (*Runner, error) {
	textColor := content.DefaultTextColor
	if cfg.Content.TextColor != "" {
		c, err := content.ParseColor(cfg.Content.TextColor)
		if err != nil {
			return nil, fmt.Errorf("failed to parse text colour: %w", err)
		}
		textColor = c
	}

	style := content.TextStyle{
		Font:  cfg.Content.Font,
		Size:  cfg.Content.FontSize,
		Color: textColor,
	}
	if cfg.Content.FitHeight {
		style.Height = cfg.Panel.Height
	}
	text, err := content.NewTextRenderer(style)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	r := &Runner{
		surface:    surface,
		controller: marquee.New(surface, cfg.Panel),
		cfg:        cfg,
		text:       text,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		images:     make(map[string]*content.Bitmap),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Prepare loads every image and message file the steps refer to, so that
// missing content is reported before anything is shown
func (r *Runner) Prepare(steps []types.Step) error {
	for i, step := range steps {
		var err error
		switch step.Action {
		case types.ActionScrollMessages:
			var lines []string
			lines, err = r.loadMessages()
			if err == nil && len(lines) == 0 {
				err = ErrNoMessages
			}
		case types.ActionScrollImage, types.ActionDisplayImage:
			_, err = r.loadImage(step.Path)
		case types.ActionGlitch:
			_, err = r.loadImages(glitchPaths(step))
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return nil
}

// Run executes the steps in order. With loop set it starts over after the
// last step and only returns on error or cancellation.
func (r *Runner) Run(ctx context.Context, steps []types.Step, loop bool) error {
	if len(steps) == 0 {
		if loop {
			return ErrEmptyProgram
		}
		return nil
	}
	for {
		for _, step := range steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.RunStep(ctx, step); err != nil {
				return err
			}
		}
		if !loop {
			return nil
		}
	}
}

// RunStep executes a single step
func (r *Runner) RunStep(ctx context.Context, step types.Step) error {
	if r.onStep != nil {
		r.onStep(step)
	}
	if r.verbose {
		log.Printf("Running %s", describe(step))
	}

	switch step.Action {
	case types.ActionScrollMessages:
		return r.ScrollMessages(ctx, times(step))
	case types.ActionScrollText:
		return r.ScrollText(ctx, step.Text, times(step))
	case types.ActionScrollImage:
		return r.ScrollImage(ctx, step.Path, step.Duration.Std())
	case types.ActionDisplayImage:
		return r.DisplayImage(ctx, step.Path, step.Duration.Std())
	case types.ActionGlitch:
		d := step.Duration
		if d == 0 {
			d = r.cfg.Glitch.Duration
		}
		return r.Glitch(ctx, glitchPaths(step), d.Std())
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// ScrollMessages scrolls every configured message n times, reshuffled on
// each call when shuffling is enabled
func (r *Runner) ScrollMessages(ctx context.Context, n int) error {
	messages, err := r.loadMessages()
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMessages, r.cfg.Content.Messages)
	}
	lines := slices.Clone(messages)
	if r.cfg.Content.Shuffle {
		content.Shuffle(lines, r.rng)
	}
	return r.controller.ScrollNTimes(ctx, images(r.text.RenderAll(lines)), n)
}

// ScrollText scrolls one line of text n times
func (r *Runner) ScrollText(ctx context.Context, text string, n int) error {
	return r.controller.ScrollNTimes(ctx, []types.Image{r.text.Render(text)}, n)
}

// ScrollImage loops an image across the panel for d
func (r *Runner) ScrollImage(ctx context.Context, path string, d time.Duration) error {
	img, err := r.loadImage(path)
	if err != nil {
		return err
	}
	return r.controller.ScrollForDuration(ctx, img, d)
}

// DisplayImage shows an image without scrolling for d
func (r *Runner) DisplayImage(ctx context.Context, path string, d time.Duration) error {
	img, err := r.loadImage(path)
	if err != nil {
		return err
	}
	return r.controller.DisplayForDuration(ctx, img, d)
}

// Glitch runs a glitch session for d. paths[0] is the clean image. Zero d
// runs until ctx is cancelled.
func (r *Runner) Glitch(ctx context.Context, paths []string, d time.Duration) error {
	bitmaps, err := r.loadImages(paths)
	if err != nil {
		return err
	}
	cfg := r.cfg.Glitch
	cfg.Duration = types.Duration(d)

	session, err := glitch.New(r.surface, images(bitmaps), cfg, glitch.WithRand(r.rng))
	if err != nil {
		return fmt.Errorf("failed to start glitch: %w", err)
	}
	return session.Run(ctx)
}

func (r *Runner) loadMessages() ([]string, error) {
	if r.messages != nil {
		return r.messages, nil
	}
	lines, err := content.LoadMessages(r.cfg.Content.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	r.messages = lines
	return lines, nil
}

func (r *Runner) loadImage(path string) (*content.Bitmap, error) {
	if img, ok := r.images[path]; ok {
		return img, nil
	}
	var opts content.ImageOptions
	if r.cfg.Content.FitHeight {
		opts.Height = r.cfg.Panel.Height
	}
	img, err := content.LoadImage(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	r.images[path] = img
	return img, nil
}

func (r *Runner) loadImages(paths []string) ([]*content.Bitmap, error) {
	out := make([]*content.Bitmap, 0, len(paths))
	for _, p := range paths {
		img, err := r.loadImage(p)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func images(bitmaps []*content.Bitmap) []types.Image {
	out := make([]types.Image, len(bitmaps))
	for i, b := range bitmaps {
		out[i] = b
	}
	return out
}

// glitchPaths lists the clean image first, then the alternates
func glitchPaths(step types.Step) []string {
	var paths []string
	if step.Path != "" {
		paths = append(paths, step.Path)
	}
	return append(paths, step.Paths...)
}

func times(step types.Step) int {
	if step.Times <= 0 {
		return 1
	}
	return step.Times
}

func describe(step types.Step) string {
	switch step.Action {
	case types.ActionScrollMessages:
		return fmt.Sprintf("%s x%d", step.Action, times(step))
	case types.ActionScrollText:
		return fmt.Sprintf("%s %q x%d", step.Action, step.Text, times(step))
	case types.ActionGlitch:
		return fmt.Sprintf("%s %v for %v", step.Action, glitchPaths(step), step.Duration)
	default:
		return fmt.Sprintf("%s %s for %v", step.Action, step.Path, step.Duration)
	}
}
