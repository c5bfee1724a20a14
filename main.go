package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/game"
	"github.com/pthm-cable/flowfields/renderer"
	"github.com/pthm-cable/flowfields/session"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	pngPath := flag.String("png", "", "Write the trail surface to this PNG when the run ends")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	pumpsPerUpdate := flag.Int("pumps-per-update", 1, "Display refreshes simulated per headless update")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := session.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxFrames, *pumpsPerUpdate, *pngPath); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindow(cfg, opts, *maxFrames, *pngPath); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runWindow drives the raylib window until it is closed or maxFrames is
// reached. The window is closed before runWindow returns.
func runWindow(cfg *config.Config, opts session.Options, maxFrames uint64, pngPath string) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxFrames > 0 && g.Frames() >= maxFrames {
			break
		}
	}

	if pngPath != "" {
		if err := g.Export(pngPath); err != nil {
			return fmt.Errorf("exporting trail: %w", err)
		}
		slog.Info("wrote trail image", "path", pngPath, "frames", g.Frames())
	}
	return nil
}

// runHeadless renders onto a CPU surface until maxFrames or an interrupt.
func runHeadless(cfg *config.Config, opts session.Options, maxFrames uint64, pumpsPerUpdate int, pngPath string) error {
	trail := renderer.NewSoftwareTrail(cfg.Screen.Width, cfg.Screen.Height, cfg.Derived.Background)
	s, err := session.New(cfg, trail, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"max_frames", maxFrames,
		"pumps_per_update", pumpsPerUpdate,
	)

	runErr := s.RunHeadless(ctx, maxFrames, pumpsPerUpdate)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if pngPath == "" && s.Output() != nil {
		pngPath = filepath.Join(s.Output().Dir(), "trail.png")
	}
	if pngPath != "" {
		if err := s.WritePNG(pngPath); err != nil {
			return err
		}
		slog.Info("wrote trail image", "path", pngPath, "frames", s.Renderer().Frames())
	}
	return runErr
}
