package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/hub75"
	"github.com/fkcurrie/led-marquee-golang/pkg/mempanel"
	"github.com/fkcurrie/led-marquee-golang/pkg/termpanel"
	"github.com/fkcurrie/led-marquee-golang/pkg/winpanel"
)

// overrides are command line settings that replace parts of the config file
type overrides struct {
	driver   string
	messages string
	image    string
	glitch   string
	once     bool
}

// imageSeconds is how long -image scrolls before the program repeats
const imageSeconds = 10 * time.Second

func (o overrides) apply(cfg *config.Config) {
	if o.driver != "" {
		cfg.Panel.Driver = o.driver
	}
	if o.messages != "" {
		cfg.Content.Messages = o.messages
	}
	switch {
	case o.glitch != "":
		paths := strings.Split(o.glitch, ",")
		cfg.Program = []types.Step{{Action: types.ActionGlitch, Path: paths[0], Paths: paths[1:]}}
	case o.image != "":
		cfg.Program = []types.Step{{Action: types.ActionScrollImage, Path: o.image, Duration: types.Duration(imageSeconds)}}
	case o.messages != "":
		cfg.Program = []types.Step{{Action: types.ActionScrollMessages, Times: 1}}
	}
	if o.once {
		cfg.Loop = false
	}
}

// openPanel opens the configured driver. The window panel is also returned
// on its own since it has to run on the main goroutine.
func openPanel(cfg types.PanelConfig) (types.Panel, *winpanel.Panel, error) {
	switch cfg.Driver {
	case types.DriverHUB75:
		p, err := hub75.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case types.DriverTerm:
		p, err := termpanel.New(cfg.Width, cfg.Height, os.Stdout)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case types.DriverWindow:
		p := winpanel.New(cfg.Width, cfg.Height, cfg.Scale)
		return p, p, nil
	case types.DriverNull:
		return mempanel.New(cfg.Width, cfg.Height), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
