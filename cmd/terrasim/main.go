//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"net/http"

	"terrasim/internal/app"
	"terrasim/internal/audio"
	"terrasim/internal/input"
	"terrasim/internal/render"
	"terrasim/internal/sim"
	"terrasim/internal/stream"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var queue input.Queue
	game := app.New(simCfg, &queue)
	backends := render.Multi{game}

	if cfg.Listen != "" {
		hub := stream.NewHub(stream.HubConfig{Geometry: simCfg.Grid()})
		defer hub.Close()
		backends = append(backends, hub)
		go func() {
			log.Printf("spectators: ws://%s/", cfg.Listen)
			if err := http.ListenAndServe(cfg.Listen, hub); err != nil {
				log.Printf("spectator server stopped: %v", err)
			}
		}()
	}

	var sound audio.Backend = &audio.Null{}
	if !cfg.Mute {
		player := audio.NewPlayer(nil)
		if err := player.Start(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	s, err := sim.New(simCfg, sim.Deps{Renderer: backends, Audio: sound, Input: &queue})
	if err != nil {
		log.Fatal(err)
	}
	game.Attach(s)

	ebiten.SetWindowTitle("terrasim")
	ebiten.SetTPS(simCfg.TPS)
	ebiten.SetWindowSize(simCfg.Width, simCfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
