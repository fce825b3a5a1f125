package main

import (
	"reflect"
	"testing"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/mempanel"
)

func TestOverridesApply(t *testing.T) {
	tests := []struct {
		name     string
		o        overrides
		wantProg []types.Step
		wantLoop bool
	}{
		{
			name:     "none",
			o:        overrides{},
			wantProg: config.DefaultConfig().Program,
			wantLoop: true,
		},
		{
			name: "glitch",
			o:    overrides{glitch: "clean.bmp,a.bmp,b.bmp", once: true},
			wantProg: []types.Step{
				{Action: types.ActionGlitch, Path: "clean.bmp", Paths: []string{"a.bmp", "b.bmp"}},
			},
		},
		{
			name: "image",
			o:    overrides{image: "logo.png"},
			wantProg: []types.Step{
				{Action: types.ActionScrollImage, Path: "logo.png", Duration: types.Duration(imageSeconds)},
			},
			wantLoop: true,
		},
		{
			name: "messages",
			o:    overrides{messages: "other.txt"},
			wantProg: []types.Step{
				{Action: types.ActionScrollMessages, Times: 1},
			},
			wantLoop: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.o.apply(cfg)
			if !reflect.DeepEqual(cfg.Program, tt.wantProg) {
				t.Errorf("Program = %+v, want %+v", cfg.Program, tt.wantProg)
			}
			if cfg.Loop != tt.wantLoop {
				t.Errorf("Loop = %v, want %v", cfg.Loop, tt.wantLoop)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestOpenPanel(t *testing.T) {
	cfg := config.DefaultConfig().Panel

	cfg.Driver = types.DriverNull
	p, window, err := openPanel(cfg)
	if err != nil {
		t.Fatalf("openPanel(null) error = %v", err)
	}
	if _, ok := p.(*mempanel.Panel); !ok || window != nil {
		t.Errorf("openPanel(null) = %T, %v", p, window)
	}
	if w, h := p.Size(); w != cfg.Width || h != cfg.Height {
		t.Errorf("Size() = %dx%d, want %dx%d", w, h, cfg.Width, cfg.Height)
	}

	cfg.Driver = types.DriverWindow
	p, window, err = openPanel(cfg)
	if err != nil {
		t.Fatalf("openPanel(window) error = %v", err)
	}
	if window == nil || p != window {
		t.Error("openPanel(window) did not return the window panel")
	}

	cfg.Driver = "vga"
	if _, _, err := openPanel(cfg); err == nil {
		t.Error("openPanel(vga) did not return error")
	}
}
