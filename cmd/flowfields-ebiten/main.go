// Flow field viewer running on ebiten instead of raylib.
//
// Usage: go run ./cmd/flowfields-ebiten -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/session"
)

// Game adapts a session to ebiten's Update/Draw cycle.
type Game struct {
	cfg     *config.Config
	trail   *EbitenTrail
	session *session.Session
	ctx     context.Context
	started bool
}

// Update starts the loop on the first tick, once the graphics driver is up,
// and then runs the frames scheduled for each tick.
func (g *Game) Update() error {
	if !g.started {
		g.started = true
		return g.session.Start(g.ctx)
	}
	g.session.Pump()
	return nil
}

// Draw presents the trail surface and a status line.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.trail.Image(), nil)

	flow := g.session.Renderer()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s - %s\nEntities: %d  Frame: %d  FPS: %0.2f",
		g.cfg.Screen.Title, g.cfg.Grid.Generator, flow.Len(), flow.Frames(), ebiten.ActualFPS()))
}

// Layout keeps the logical screen at the trail size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.trail.Size()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	trail := NewEbitenTrail(cfg.Screen.Width, cfg.Screen.Height, cfg.Derived.Background)
	s, err := session.New(cfg, trail, session.Options{Seed: rngSeed})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetTPS(cfg.Screen.TargetFPS)

	if err := ebiten.RunGame(&Game{cfg: cfg, trail: trail, session: s, ctx: ctx}); err != nil {
		slog.Error("ebiten exited", "error", err)
	}
}
