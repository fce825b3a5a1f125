package program

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"reflect"
	"testing"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/types"
)

func TestRunScript(t *testing.T) {
	f := newFixture(t, "hello", "world")
	clean := writeBMP(t, f.dir, "clean.bmp", 6, color.RGBA{255, 255, 255, 255})
	alt := writeBMP(t, f.dir, "alt.bmp", 6, color.RGBA{0, 0, 255, 255})

	script := writeFile(t, f.dir, "show.lua", fmt.Sprintf(`
scroll_text("hi")
display_image(%[1]q, 0.005)
for i = 1, 2 do
  scroll_image(%[2]q, 0.004)
end
sleep(0.001)
glitch(0.02, %[1]q, %[2]q)
scroll_messages(2)
`, clean, alt))

	if err := f.runner.RunScript(context.Background(), script); err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}

	want := []types.Step{
		{Action: types.ActionScrollText, Text: "hi", Times: 1},
		{Action: types.ActionDisplayImage, Path: clean, Duration: ms(5)},
		{Action: types.ActionScrollImage, Path: alt, Duration: ms(4)},
		{Action: types.ActionScrollImage, Path: alt, Duration: ms(4)},
		{Action: types.ActionGlitch, Path: clean, Paths: []string{alt}, Duration: ms(20)},
		{Action: types.ActionScrollMessages, Times: 2},
	}
	if !reflect.DeepEqual(f.steps, want) {
		t.Errorf("steps = %+v\nwant %+v", f.steps, want)
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"syntax", "scroll_text("},
		{"missing argument", `scroll_image("a.bmp")`},
		{"negative seconds", `sleep(-1)`},
		{"missing image", `display_image("missing.bmp", 1)`},
		{"unknown function", `marquee()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "x")
			path := writeFile(t, f.dir, "bad.lua", tt.script)
			if err := f.runner.RunScript(context.Background(), path); err == nil {
				t.Error("RunScript() did not return error")
			}
		})
	}
}

func TestRunScriptCancel(t *testing.T) {
	f := newFixture(t, "x")
	img := writeBMP(t, f.dir, "logo.bmp", 4, color.RGBA{255, 0, 0, 255})
	script := writeFile(t, f.dir, "forever.lua", fmt.Sprintf(`
while true do
  display_image(%q, 0.005)
end
`, img))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := f.runner.RunScript(ctx, script)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunScript() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("RunScript() took %v to stop", elapsed)
	}
}
