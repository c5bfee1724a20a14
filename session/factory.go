package session

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/config"
	"github.com/pthm-cable/flowfields/systems"
)

// Placement strategies for seeded entities.
const (
	PlacementRandom   = "random"
	PlacementGrid     = "grid"
	PlacementLeftEdge = "left_edge"
)

// newGenerator builds the configured grid generator for a surface width
// pixels wide.
func newGenerator(cfg *config.Config, seed int64, width int) (systems.Generator, error) {
	gridSeed := cfg.Grid.Seed
	if gridSeed == 0 {
		gridSeed = seed
	}
	gen, err := systems.NewGenerator(cfg.Grid.Generator, systems.GeneratorParams{
		CellSize:   cfg.Grid.CellSize,
		Width:      float64(width),
		Strength:   cfg.Grid.Strength,
		NoiseScale: cfg.Grid.NoiseScale,
		Seed:       gridSeed,
		Uniform:    components.Vec(cfg.Grid.UniformX, cfg.Grid.UniformY),
	})
	if err != nil {
		return nil, err
	}
	if cfg.Grid.Smooth < 1 {
		gen = systems.Smooth(gen, cfg.Grid.Smooth)
	}
	return gen, nil
}

// spawnPositions returns n start positions on a width x height surface.
// Unknown placements fall back to random.
func spawnPositions(rng *rand.Rand, placement string, n int, width, height, cellSize float64) []components.Vector {
	out := make([]components.Vector, 0, n)
	if n <= 0 {
		return out
	}

	switch placement {
	case PlacementGrid:
		// Near-square lattice covering the surface, one entity per lattice point
		cols := int(math.Ceil(math.Sqrt(float64(n) * width / math.Max(height, 1))))
		if cols < 1 {
			cols = 1
		}
		rows := (n + cols - 1) / cols
		dx := width / float64(cols)
		dy := height / float64(rows)
		for i := 0; i < n; i++ {
			c, r := i%cols, i/cols
			out = append(out, components.Vec((float64(c)+0.5)*dx, (float64(r)+0.5)*dy))
		}
	case PlacementLeftEdge:
		band := math.Max(cellSize, 1)
		for i := 0; i < n; i++ {
			out = append(out, components.Vec(rng.Float64()*band, rng.Float64()*height))
		}
	default:
		for i := 0; i < n; i++ {
			out = append(out, components.Vec(rng.Float64()*width, rng.Float64()*height))
		}
	}
	return out
}
