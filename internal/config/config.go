package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Panel   types.PanelConfig   `json:"panel" yaml:"panel" toml:"panel"`
	Content types.ContentConfig `json:"content" yaml:"content" toml:"content"`
	Glitch  types.GlitchConfig  `json:"glitch" yaml:"glitch" toml:"glitch"`
	Program []types.Step        `json:"program" yaml:"program" toml:"program"`
	// Loop repeats the program until the process is stopped
	Loop bool `json:"loop" yaml:"loop" toml:"loop"`
}

// LoadConfig loads the configuration from a file. The format follows the
// extension: .json, .yaml/.yml or .toml. Fields missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	// decoders merge into existing slice elements, so steps start empty
	defaults := config.Program
	config.Program = nil
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".toml":
		_, err = toml.Decode(string(data), config)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if config.Program == nil {
		config.Program = defaults
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// DefaultPins returns the Adafruit RGB Matrix Bonnet pinout
func DefaultPins() types.HUB75Pins {
	return types.HUB75Pins{
		R1: 5, G1: 13, B1: 6,
		R2: 12, G2: 16, B2: 23,
		CLK: 17, OE: 4, LAT: 21,
		A: 22, B: 26, C: 27, D: 20, E: 24,
	}
}

// DefaultConfig returns the default configuration: a chain of four 32x16
// panels scrolling shuffled messages and then a logo, forever
func DefaultConfig() *Config {
	return &Config{
		Panel: types.PanelConfig{
			Width:         128,
			Height:        16,
			Brightness:    40,
			FrameInterval: types.Duration(20 * time.Millisecond),
			DefaultWrap:   true,
			Driver:        types.DriverHUB75,
			Chip:          "gpiochip0",
			Pins:          DefaultPins(),
			Scale:         6,
		},
		Content: types.ContentConfig{
			Messages:  "resources/messages.txt",
			Shuffle:   true,
			Font:      "proggy",
			FontSize:  12,
			TextColor: "#14648c",
		},
		Glitch: types.GlitchConfig{
			ScrollTick: types.Duration(8 * time.Millisecond),
			CleanMin:   types.Duration(2 * time.Second),
			CleanMax:   types.Duration(6 * time.Second),
			GlitchMin:  types.Duration(30 * time.Millisecond),
			GlitchMax:  types.Duration(120 * time.Millisecond),
			Duration:   types.Duration(30 * time.Second),
		},
		Program: []types.Step{
			{Action: types.ActionScrollMessages, Times: 1},
			{Action: types.ActionScrollImage, Path: "resources/megacorp.bmp", Duration: types.Duration(10 * time.Second)},
		},
		Loop: true,
	}
}

// Validate checks the configuration for values the display cannot use
func (c *Config) Validate() error {
	p := c.Panel
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", p.Width, p.Height)
	}
	if p.Brightness < 0 || p.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	if p.FrameInterval < 0 {
		return fmt.Errorf("frame interval must not be negative")
	}
	switch p.Driver {
	case types.DriverHUB75, types.DriverTerm, types.DriverWindow, types.DriverNull:
	default:
		return fmt.Errorf("unknown driver %q", p.Driver)
	}

	g := c.Glitch
	if g.CleanMax < g.CleanMin || g.GlitchMax < g.GlitchMin {
		return fmt.Errorf("glitch interval max is below min")
	}

	for i, step := range c.Program {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("program step %d: %w", i+1, err)
		}
	}
	return nil
}

func validateStep(s types.Step) error {
	switch s.Action {
	case types.ActionScrollMessages:
	case types.ActionScrollText:
		if s.Text == "" {
			return fmt.Errorf("%s needs text", s.Action)
		}
	case types.ActionScrollImage, types.ActionDisplayImage:
		if s.Path == "" {
			return fmt.Errorf("%s needs a path", s.Action)
		}
		if s.Duration <= 0 {
			return fmt.Errorf("%s needs a duration", s.Action)
		}
	case types.ActionGlitch:
		if s.Path == "" && len(s.Paths) == 0 {
			return fmt.Errorf("%s needs at least one image", s.Action)
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	if s.Times < 0 {
		return fmt.Errorf("times must not be negative")
	}
	return nil
}
