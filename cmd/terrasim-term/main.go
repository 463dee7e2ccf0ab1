package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"terrasim/internal/app"
	"terrasim/internal/audio"
	"terrasim/internal/input"
	"terrasim/internal/render"
	"terrasim/internal/sim"
	"terrasim/internal/stream"
	"terrasim/internal/term"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file (the screen is busy)")
	flag.Parse()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	renderer := term.NewRenderer(screen, simCfg.Grid())
	backends := render.Multi{renderer}
	if cfg.Listen != "" {
		hub := stream.NewHub(stream.HubConfig{Geometry: simCfg.Grid(), Logger: logger})
		defer hub.Close()
		backends = append(backends, hub)
		go func() {
			if err := http.ListenAndServe(cfg.Listen, hub); err != nil {
				logger.Printf("spectator server stopped: %v", err)
			}
		}()
	}

	var sound audio.Backend = &audio.Null{}
	if !cfg.Mute {
		player := audio.NewPlayer(nil)
		if err := player.Start(); err != nil {
			logger.Printf("audio disabled: %v", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	var queue input.Queue
	s, err := sim.New(simCfg, sim.Deps{Renderer: backends, Audio: sound, Input: &queue, Logger: logger})
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := term.NewRunner(screen, s, &queue, renderer).Run(ctx); err != nil && ctx.Err() == nil {
		logger.Printf("terminal loop: %v", err)
	}
}
