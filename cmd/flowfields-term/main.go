// Flow field viewer for the terminal. Each character cell shows two trail
// pixels using upper half blocks.
//
// Usage: go run ./cmd/flowfields-term -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/renderer"
	"github.com/pthm-cable/flowfields/session"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "", "Write logs to this file (terminal output is taken by the viewer)")
	flag.Parse()

	if err := run(*configPath, *seed, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, logPath string) error {
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	// Surface pixels: one column per cell, two rows per cell. Config
	// distances are in screen pixels, so scale them to terminal pixels.
	cols, rows := screen.Size()
	scale := float64(cols) / float64(cfg.Screen.Width)
	cfg.Grid.CellSize = max(1, cfg.Grid.CellSize*scale)
	cfg.Simulation.MaxVelocity *= scale

	trail := renderer.NewSoftwareTrail(cols, rows*2, cfg.Derived.Background)
	s, err := session.New(cfg, trail, session.Options{Seed: seed})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pollQuit(screen, cancel)

	if err := s.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Screen.TargetFPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Pump()
			blit(screen, trail)
			screen.Show()
		}
	}
}

// pollQuit cancels on Escape, Ctrl-C or q.
func pollQuit(screen tcell.Screen, cancel context.CancelFunc) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC ||
				(key.Key() == tcell.KeyRune && key.Rune() == 'q') {
				cancel()
				return
			}
		}
	}
}

// blit draws the trail image onto the screen with half blocks.
func blit(screen tcell.Screen, trail *renderer.SoftwareTrail) {
	w, h := trail.Size()
	for y := 0; y+1 < h; y += 2 {
		for x := 0; x < w; x++ {
			top := trail.At(x, y)
			bottom := trail.At(x, y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}
