// Package session wires a configured flow grid, renderer, scheduler and
// telemetry together for a host surface.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/renderer"
	"github.com/pthm-cable/flowfields/systems"
	"github.com/pthm-cable/flowfields/telemetry"
)

// Options configures a session beyond the config file.
type Options struct {
	Seed      int64  // RNG seed for entities and noise when the config leaves them at 0
	OutputDir string // Directory for CSV logs and config snapshot (empty = disabled)
	LogStats  bool   // Log window stats via slog
}

// Session owns everything needed to drive one flow field on one surface.
type Session struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand

	grid      *systems.FlowGrid
	flow      *renderer.FlowRenderer
	trail     renderer.TrailSurface
	scheduler *renderer.QueueScheduler
	params    renderer.FrameParams

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	last      telemetry.WindowStats
}

// New builds a session drawing onto trail. The grid is sized from the trail
// dimensions and the configured cell size, then the initial population is
// seeded.
func New(cfg *config.Config, trail renderer.TrailSurface, opts Options) (*Session, error) {
	width, height := trail.Size()

	gen, err := newGenerator(cfg, opts.Seed, width)
	if err != nil {
		return nil, fmt.Errorf("building generator: %w", err)
	}
	grid, err := systems.GridFromSurface(width, height, cfg.Grid.CellSize, gen)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	entitySeed := cfg.Entities.Seed
	if entitySeed == 0 {
		entitySeed = opts.Seed
	}

	s := &Session{
		cfg:       cfg,
		opts:      opts,
		rng:       rand.New(rand.NewSource(entitySeed)),
		grid:      grid,
		trail:     trail,
		scheduler: renderer.NewQueueScheduler(),
		params: renderer.FrameParams{
			Weight:      cfg.Simulation.Weight,
			MaxVelocity: cfg.Simulation.MaxVelocity,
			Iterations:  cfg.Simulation.Iterations,
		},
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Derived.StatsFrames),
		output:    output,
	}

	s.flow = renderer.NewFlowRenderer(trail, grid,
		renderer.WithStroke(renderer.StrokeStyle{
			Width: cfg.Style.StrokeWidth,
			Color: cfg.Derived.StrokeColor,
		}),
		renderer.WithPhaseTimer(s.perf),
		renderer.WithFrameObserver(s.observe),
	)

	if cfg.Style.DrawGrid {
		renderer.DrawGridOverlay(trail, grid, s.flow.CellSize(), renderer.StrokeStyle{
			Width: 1,
			Color: cfg.Derived.GridColor,
		})
	}

	s.Seed(cfg.Entities.Count)

	slog.Info("session ready",
		"width", width,
		"height", height,
		"cols", grid.Cols(),
		"rows", grid.Rows(),
		"generator", cfg.Grid.Generator,
		"entities", s.flow.Len(),
		"run_id", output.RunID(),
	)

	return s, nil
}

// Seed drops n entities using the configured placement and initial velocity.
func (s *Session) Seed(n int) {
	w, h := s.trail.Size()
	vel := components.Vec(s.cfg.Entities.InitialVX, s.cfg.Entities.InitialVY)
	for _, pos := range spawnPositions(s.rng, s.cfg.Entities.Placement, n, float64(w), float64(h), s.cfg.Grid.CellSize) {
		s.flow.Drop(components.NewEntityWithVelocity(pos, vel))
	}
}

// Start begins the self-scheduling loop. Frames run as the host pumps.
func (s *Session) Start(ctx context.Context) error {
	return s.flow.StartContext(ctx, s.scheduler, s.params)
}

// Pump is called by the host once per displayed frame. It drips new
// entities when configured and runs the frames scheduled since the last pump.
func (s *Session) Pump() int {
	s.drip()
	s.perf.RecordFrame()
	return s.scheduler.Pump()
}

func (s *Session) drip() {
	n := s.cfg.Entities.DripPerFrame
	if n == 0 || s.flow.State() != renderer.StateRunning {
		return
	}
	if limit := s.cfg.Entities.MaxCount; limit > 0 {
		room := limit - s.flow.Len()
		if room <= 0 {
			return
		}
		if n > room {
			n = room
		}
	}
	s.Seed(n)
}

// observe runs after every frame.
func (s *Session) observe(fs renderer.FrameStats) {
	s.collector.Observe(fs)
	if !s.collector.ShouldFlush() {
		return
	}

	w, h := s.trail.Size()
	stats := s.collector.Flush(s.flow.Entities(), w, h)
	stats.RunID = s.output.RunID()
	s.last = stats

	if s.opts.LogStats {
		stats.LogStats()
		slog.Info("perf", "stats", s.perf.Stats())
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if err := s.output.WritePerf(s.perf.Stats(), fs.Frame); err != nil {
		slog.Warn("perf write failed", "error", err)
	}
}

// Stop cancels the loop.
func (s *Session) Stop() {
	s.flow.Stop()
}

// Close stops the loop and flushes output files.
func (s *Session) Close() error {
	s.flow.Stop()
	return s.output.Close()
}

// Renderer returns the flow renderer.
func (s *Session) Renderer() *renderer.FlowRenderer { return s.flow }

// Grid returns the flow grid.
func (s *Session) Grid() *systems.FlowGrid { return s.grid }

// Output returns the output manager, nil when output is disabled.
func (s *Session) Output() *telemetry.OutputManager { return s.output }

// Perf returns the frame timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perf }

// LastWindow returns the most recently flushed window stats.
func (s *Session) LastWindow() telemetry.WindowStats { return s.last }

// Params returns the frame params bound to the loop.
func (s *Session) Params() renderer.FrameParams { return s.params }
