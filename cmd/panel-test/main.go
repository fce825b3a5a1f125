package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/display"
	"github.com/fkcurrie/led-marquee-golang/internal/pace"
	"github.com/fkcurrie/led-marquee-golang/internal/types"
	"github.com/fkcurrie/led-marquee-golang/pkg/hub75"
	"github.com/fkcurrie/led-marquee-golang/pkg/mempanel"
	"github.com/fkcurrie/led-marquee-golang/pkg/termpanel"
	"github.com/fkcurrie/led-marquee-golang/pkg/winpanel"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// pattern is one test screen
type pattern struct {
	name string
	at   func(x, y int) color.RGBA
}

var patterns = []pattern{
	{"red", solid(color.RGBA{255, 0, 0, 255})},
	{"green", solid(color.RGBA{0, 255, 0, 255})},
	{"blue", solid(color.RGBA{0, 0, 255, 255})},
	{"checkerboard", func(x, y int) color.RGBA {
		if (x+y)%2 == 0 {
			return color.RGBA{255, 255, 255, 255}
		}
		return color.RGBA{0, 0, 0, 255}
	}},
}

func solid(c color.RGBA) func(x, y int) color.RGBA {
	return func(x, y int) color.RGBA { return c }
}

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	driver := flag.String("driver", "", "panel driver: hub75, term, window or null")
	hold := flag.Duration("hold", 2*time.Second, "how long each pattern is shown")
	label := flag.Bool("label", true, "write the pattern name on the panel")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}
	if *driver != "" {
		cfg.Panel.Driver = *driver
	}

	var panel types.Panel
	var window *winpanel.Panel
	switch cfg.Panel.Driver {
	case types.DriverHUB75:
		panel, err = hub75.Open(cfg.Panel)
	case types.DriverTerm:
		panel, err = termpanel.New(cfg.Panel.Width, cfg.Panel.Height, os.Stdout)
	case types.DriverWindow:
		window = winpanel.New(cfg.Panel.Width, cfg.Panel.Height, cfg.Panel.Scale)
		panel = window
	case types.DriverNull:
		panel = mempanel.New(cfg.Panel.Width, cfg.Panel.Height)
	default:
		err = fmt.Errorf("unknown driver %q", cfg.Panel.Driver)
	}
	if err != nil {
		log.Fatalf("Failed to create panel: %v", err)
	}
	defer panel.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	frame := display.NewFrame(panel)
	if window == nil {
		runPatterns(ctx, frame, *hold, *label)
		return
	}

	go func() {
		runPatterns(ctx, frame, *hold, *label)
		window.Close()
	}()
	if err := window.Run(); err != nil {
		log.Printf("Window error: %v", err)
	}
}

func runPatterns(ctx context.Context, frame *display.Frame, hold time.Duration, label bool) {
	width, height := frame.GetDimensions()
	for _, p := range patterns {
		log.Printf("Showing %s", p.name)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				frame.SetPixel(int16(x), int16(y), p.at(x, y))
			}
		}
		if label {
			tinyfont.WriteLine(frame, &proggy.TinySZ8pt7b, 1, int16(height-2), p.name, color.RGBA{0, 0, 0, 255})
		}
		frame.Present()
		if err := pace.Sleep(ctx, hold); err != nil {
			return
		}
	}

	// Clear the panel
	log.Println("Clearing panel")
	frame.Present()
	fmt.Println("Test completed successfully")
}
