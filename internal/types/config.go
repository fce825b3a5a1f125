package types

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that reads and writes as "20ms", "10s" and so on
type Duration time.Duration

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Driver names accepted in PanelConfig.Driver
const (
	DriverHUB75  = "hub75"
	DriverTerm   = "term"
	DriverWindow = "window"
	DriverNull   = "null"
)

// HUB75Pins maps HUB75 signals to GPIO line offsets
type HUB75Pins struct {
	R1  int `json:"r1" yaml:"r1" toml:"r1"`
	G1  int `json:"g1" yaml:"g1" toml:"g1"`
	B1  int `json:"b1" yaml:"b1" toml:"b1"`
	R2  int `json:"r2" yaml:"r2" toml:"r2"`
	G2  int `json:"g2" yaml:"g2" toml:"g2"`
	B2  int `json:"b2" yaml:"b2" toml:"b2"`
	CLK int `json:"clk" yaml:"clk" toml:"clk"`
	OE  int `json:"oe" yaml:"oe" toml:"oe"`
	LAT int `json:"lat" yaml:"lat" toml:"lat"`
	A   int `json:"a" yaml:"a" toml:"a"`
	B   int `json:"b" yaml:"b" toml:"b"`
	C   int `json:"c" yaml:"c" toml:"c"`
	D   int `json:"d" yaml:"d" toml:"d"`
	E   int `json:"e" yaml:"e" toml:"e"`
}

// PanelConfig represents the configuration for the LED panel
type PanelConfig struct {
	Width         int       `json:"width" yaml:"width" toml:"width"`
	Height        int       `json:"height" yaml:"height" toml:"height"`
	Brightness    int       `json:"brightness" yaml:"brightness" toml:"brightness"`
	FrameInterval Duration  `json:"frame_interval" yaml:"frame_interval" toml:"frame_interval"`
	DefaultWrap   bool      `json:"default_wrap" yaml:"default_wrap" toml:"default_wrap"`
	Driver        string    `json:"driver" yaml:"driver" toml:"driver"`
	Chip          string    `json:"chip" yaml:"chip" toml:"chip"`
	Pins          HUB75Pins `json:"pins" yaml:"pins" toml:"pins"`
	Scale         int       `json:"scale" yaml:"scale" toml:"scale"`
}

// ContentConfig represents where marquee content comes from and how text looks
type ContentConfig struct {
	Messages  string  `json:"messages" yaml:"messages" toml:"messages"`
	Shuffle   bool    `json:"shuffle" yaml:"shuffle" toml:"shuffle"`
	Font      string  `json:"font" yaml:"font" toml:"font"`
	FontSize  float64 `json:"font_size" yaml:"font_size" toml:"font_size"`
	TextColor string  `json:"text_color" yaml:"text_color" toml:"text_color"`
	FitHeight bool    `json:"fit_height" yaml:"fit_height" toml:"fit_height"`
}

// GlitchConfig represents the timing of a glitch session
type GlitchConfig struct {
	ScrollTick Duration `json:"scroll_tick" yaml:"scroll_tick" toml:"scroll_tick"`
	CleanMin   Duration `json:"clean_min" yaml:"clean_min" toml:"clean_min"`
	CleanMax   Duration `json:"clean_max" yaml:"clean_max" toml:"clean_max"`
	GlitchMin  Duration `json:"glitch_min" yaml:"glitch_min" toml:"glitch_min"`
	GlitchMax  Duration `json:"glitch_max" yaml:"glitch_max" toml:"glitch_max"`
	// Duration of a session; zero runs until cancelled
	Duration Duration `json:"duration" yaml:"duration" toml:"duration"`
}

// Program step actions
const (
	ActionScrollMessages = "scroll_messages"
	ActionScrollText     = "scroll_text"
	ActionScrollImage    = "scroll_image"
	ActionDisplayImage   = "display_image"
	ActionGlitch         = "glitch"
)

// Step is one entry of a marquee program
type Step struct {
	Action   string   `json:"action" yaml:"action" toml:"action"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Paths    []string `json:"paths,omitempty" yaml:"paths,omitempty" toml:"paths,omitempty"`
	Times    int      `json:"times,omitempty" yaml:"times,omitempty" toml:"times,omitempty"`
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty" toml:"duration,omitempty"`
}
