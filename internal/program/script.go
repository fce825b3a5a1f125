package program

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/pace"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	lua "github.com/yuin/gopher-lua"
)

// RunScript executes a Lua script. The script drives the marquee through
// these globals:
//
//	scroll_messages([n])
//	scroll_text(text, [n])
//	scroll_image(path, seconds)
//	display_image(path, seconds)
//	glitch(seconds, clean, [alternate...])
//	sleep(seconds)
//
// glitch(0, ...) uses the configured glitch duration.
// Cancelling ctx stops the script at the next instruction or frame.
func (r *Runner) RunScript(ctx context.Context, path string) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r.registerScriptAPI(ctx, L)

	if err := L.DoFile(path); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("script %s failed: %w", path, err)
	}
	return nil
}

func (r *Runner) registerScriptAPI(ctx context.Context, L *lua.LState) {
	step := func(build func(L *lua.LState) types.Step) lua.LGFunction {
		return func(L *lua.LState) int {
			if err := r.RunStep(ctx, build(L)); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		}
	}

	L.SetGlobal("scroll_messages", L.NewFunction(step(func(L *lua.LState) types.Step {
		return types.Step{Action: types.ActionScrollMessages, Times: L.OptInt(1, 1)}
	})))
	L.SetGlobal("scroll_text", L.NewFunction(step(func(L *lua.LState) types.Step {
		return types.Step{Action: types.ActionScrollText, Text: L.CheckString(1), Times: L.OptInt(2, 1)}
	})))
	L.SetGlobal("scroll_image", L.NewFunction(step(func(L *lua.LState) types.Step {
		return types.Step{Action: types.ActionScrollImage, Path: L.CheckString(1), Duration: seconds(L, 2)}
	})))
	L.SetGlobal("display_image", L.NewFunction(step(func(L *lua.LState) types.Step {
		return types.Step{Action: types.ActionDisplayImage, Path: L.CheckString(1), Duration: seconds(L, 2)}
	})))
	L.SetGlobal("glitch", L.NewFunction(step(func(L *lua.LState) types.Step {
		s := types.Step{Action: types.ActionGlitch, Duration: seconds(L, 1), Path: L.CheckString(2)}
		for i := 3; i <= L.GetTop(); i++ {
			s.Paths = append(s.Paths, L.CheckString(i))
		}
		return s
	})))
	L.SetGlobal("sleep", L.NewFunction(func(L *lua.LState) int {
		if err := pace.Sleep(ctx, seconds(L, 1).Std()); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))
}

// seconds reads a non-negative number of seconds from the stack
func seconds(L *lua.LState, n int) types.Duration {
	v := float64(L.CheckNumber(n))
	if v < 0 {
		L.ArgError(n, "seconds must not be negative")
	}
	return types.Duration(math.Round(v * float64(time.Second)))
}
