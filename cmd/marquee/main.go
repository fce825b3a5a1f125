package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/led-marquee-golang/internal/config"
	"github.com/fkcurrie/led-marquee-golang/internal/display"
	"github.com/fkcurrie/led-marquee-golang/internal/program"
	"github.com/fkcurrie/led-marquee-golang/internal/scroll"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file (.json, .yaml or .toml)")
	var opts overrides
	flag.StringVar(&opts.driver, "driver", "", "panel driver: hub75, term, window or null")
	flag.StringVar(&opts.messages, "messages", "", "messages file to scroll")
	flag.StringVar(&opts.image, "image", "", "scroll only this image")
	flag.StringVar(&opts.glitch, "glitch", "", "comma separated images to glitch, clean image first")
	flag.BoolVar(&opts.once, "once", false, "run the program once instead of looping")
	script := flag.String("script", "", "Lua script to run instead of the configured program")
	healthAddr := flag.String("health", "", "address for the /health endpoint, e.g. :8080")
	statsAddr := flag.String("statsview", "", "address for the runtime statsview, e.g. localhost:18066")
	verbose := flag.Bool("v", false, "log every program step")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	panel, window, err := openPanel(cfg.Panel)
	if err != nil {
		log.Fatalf("Failed to open %s panel: %v", cfg.Panel.Driver, err)
	}
	defer panel.Close()

	surface := scroll.NewSurface(display.NewFrame(panel), cfg.Panel.DefaultWrap)
	runner, err := program.New(surface, cfg, program.WithVerbose(*verbose))
	if err != nil {
		log.Fatalf("Failed to create program runner: %v", err)
	}
	if *script == "" {
		if err := runner.Prepare(cfg.Program); err != nil {
			log.Fatalf("Failed to load content: %v", err)
		}
	}

	// Create context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	var server *http.Server
	if *healthAddr != "" {
		server = startHealthServer(*healthAddr)
	}
	if *statsAddr != "" {
		viewer.SetConfiguration(viewer.WithAddr(*statsAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.Printf("Statsview at http://%s/debug/statsview", *statsAddr)
	}

	run := func() error {
		if *script != "" {
			return runner.RunScript(ctx, *script)
		}
		return runner.Run(ctx, cfg.Program, cfg.Loop)
	}

	if window != nil {
		// the window owns the main goroutine until it closes
		errc := make(chan error, 1)
		go func() {
			errc <- run()
			window.Close()
		}()
		if err := window.Run(); err != nil {
			log.Printf("Window error: %v", err)
		}
		cancel()
		err = <-errc
	} else {
		err = run()
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shutdown server: %v", err)
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Program failed: %v", err)
		panel.Close()
		os.Exit(1)
	}
}

func startHealthServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	return server
}
