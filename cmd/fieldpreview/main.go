// Flow grid preview tool - renders a generator's grid vectors to a PNG file
// for inspection.
//
// Usage: go run ./cmd/fieldpreview -generator simplex -out grid.png
//
// -generator all writes one file per generator, suffixed with its name.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/renderer"
	"github.com/pthm-cable/flowfields/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	generator := flag.String("generator", "", "Generator to render (empty = configured, all = every generator)")
	outPath := flag.String("out", "grid.png", "Output PNG path")
	seed := flag.Int64("seed", 1, "Noise seed when the config leaves it at 0")
	length := flag.Float64("length", 0, "Draw every vector with this length in pixels (0 = raw vectors)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Grid.Seed == 0 {
		cfg.Grid.Seed = *seed
	}

	jobs := map[string]string{}
	switch *generator {
	case "":
		jobs[cfg.Grid.Generator] = *outPath
	case "all":
		ext := filepath.Ext(*outPath)
		base := strings.TrimSuffix(*outPath, ext)
		for _, name := range systems.GeneratorNames() {
			jobs[name] = fmt.Sprintf("%s_%s%s", base, name, ext)
		}
	default:
		jobs[*generator] = *outPath
	}

	for name, path := range jobs {
		p := cfg.Grid
		p.Generator = name
		if err := render(cfg, p, *length, path); err != nil {
			slog.Error("render failed", "generator", name, "error", err)
			os.Exit(1)
		}
	}
}

// render draws the grid built from p onto a fresh software trail and writes
// it to path.
func render(cfg *config.Config, p config.GridConfig, length float64, path string) error {
	gen, err := systems.NewGenerator(p.Generator, systems.GeneratorParams{
		CellSize:   p.CellSize,
		Width:      float64(cfg.Screen.Width),
		Strength:   p.Strength,
		NoiseScale: p.NoiseScale,
		Seed:       p.Seed,
		Uniform:    components.Vec(p.UniformX, p.UniformY),
	})
	if err != nil {
		return err
	}
	if p.Smooth < 1 {
		gen = systems.Smooth(gen, p.Smooth)
	}

	grid, err := systems.GridFromSurface(cfg.Screen.Width, cfg.Screen.Height, p.CellSize, gen)
	if err != nil {
		return err
	}
	if length > 0 {
		grid = systems.NewFlowGrid(grid.Cols(), grid.Rows(), func(col, row int, _ systems.GridReader) components.Vector {
			v, _ := grid.At(float64(col), float64(row))
			return v.Normalize().Scale(length)
		})
	}

	trail := renderer.NewSoftwareTrail(cfg.Screen.Width, cfg.Screen.Height, cfg.Derived.Background)
	cellSize := float64(cfg.Screen.Width) / math.Max(float64(grid.Cols()), 1)
	renderer.DrawGridOverlay(trail, grid, cellSize, renderer.StrokeStyle{
		Width: cfg.Style.StrokeWidth,
		Color: cfg.Derived.GridColor,
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := trail.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	lengths := make([]float64, 0, grid.Cols()*grid.Rows())
	grid.ForEach(func(_, _ int, v components.Vector) {
		lengths = append(lengths, v.Length())
	})
	var mean, std float64
	if len(lengths) > 0 {
		mean, std = stat.PopMeanStdDev(lengths, nil)
	}
	slog.Info("grid rendered",
		"generator", p.Generator,
		"path", path,
		"cols", grid.Cols(),
		"rows", grid.Rows(),
		"length_mean", mean,
		"length_std", std,
	)
	return nil
}
