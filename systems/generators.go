package systems

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/flowfields/components"
)

// GeneratorParams configures the built-in generators.
type GeneratorParams struct {
	CellSize   float64 // Pixel size of one cell
	Width      float64 // Pixel width of the surface the grid covers
	Strength   float64 // Magnitude of noise vectors
	NoiseScale float64 // Noise frequency per cell
	Seed       int64
	Uniform    components.Vector // Vector used by the uniform generator
}

// GeneratorFactory builds a generator from params.
type GeneratorFactory func(p GeneratorParams) Generator

var generators = map[string]GeneratorFactory{
	"zero":    func(GeneratorParams) Generator { return ZeroGenerator },
	"uniform": func(p GeneratorParams) Generator { return UniformGenerator(p.Uniform) },
	"wave":    func(p GeneratorParams) Generator { return WaveGenerator(p.CellSize, p.Width) },
	"simplex": SimplexGenerator,
	"perlin":  PerlinGenerator,
}

// NewGenerator looks up a generator by name.
func NewGenerator(name string, p GeneratorParams) (Generator, error) {
	f, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q (available: %v)", name, GeneratorNames())
	}
	return f(p), nil
}

// GeneratorNames returns the registered generator names, sorted.
func GeneratorNames() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UniformGenerator returns v for every cell.
func UniformGenerator(v components.Vector) Generator {
	return func(int, int, GridReader) components.Vector {
		return v
	}
}

// WaveGenerator is a column wave: the horizontal component is
// cos(2π·col/width), with the column index measured against the surface width
// in pixels, so a grid sweeps only the start of one period. The vertical
// component is cos(3π). Vectors are scaled to a quarter of a cell. A width
// of 0 or less falls back to cols*cellSize.
func WaveGenerator(cellSize, width float64) Generator {
	return func(col, _ int, grid GridReader) components.Vector {
		w := width
		if w <= 0 {
			w = float64(grid.Cols()) * cellSize
		}
		if w <= 0 {
			return components.Vector{}
		}
		t := float64(col) / w
		return components.Vec(math.Cos(2*math.Pi*t), math.Cos(3*math.Pi)).
			Normalize().
			Scale(cellSize / 4)
	}
}

// SimplexGenerator maps OpenSimplex noise to a direction angle per cell.
func SimplexGenerator(p GeneratorParams) Generator {
	noise := opensimplex.New(p.Seed)
	scale := noiseScale(p)
	return func(col, row int, _ GridReader) components.Vector {
		n := noise.Eval2(float64(col)*scale, float64(row)*scale)
		return angleVector(n, p.Strength)
	}
}

// PerlinGenerator maps Perlin noise to a direction angle per cell.
func PerlinGenerator(p GeneratorParams) Generator {
	noise := perlin.NewPerlin(2, 2, 3, p.Seed)
	scale := noiseScale(p)
	return func(col, row int, _ GridReader) components.Vector {
		n := noise.Noise2D(float64(col)*scale, float64(row)*scale)
		return angleVector(n, p.Strength)
	}
}

// Smooth wraps gen and averages each result with the already generated
// left and upper neighbours. The blend weight is the share kept by the
// new cell (1 = no smoothing).
func Smooth(gen Generator, keep float64) Generator {
	if gen == nil {
		gen = ZeroGenerator
	}
	keep = math.Max(0, math.Min(1, keep))
	return func(col, row int, grid GridReader) components.Vector {
		v := gen(col, row, grid)

		var sum components.Vector
		n := 0
		if left, ok := grid.At(float64(col-1), float64(row)); ok {
			sum = sum.Add(left)
			n++
		}
		if up, ok := grid.At(float64(col), float64(row-1)); ok {
			sum = sum.Add(up)
			n++
		}
		if n == 0 {
			return v
		}
		avg := sum.Scale(1 / float64(n))
		return v.Scale(keep).Add(avg.Scale(1 - keep))
	}
}

func noiseScale(p GeneratorParams) float64 {
	if p.NoiseScale <= 0 {
		return 0.05
	}
	return p.NoiseScale
}

// angleVector turns a noise sample in roughly [-1, 1] into a vector of the
// given magnitude.
func angleVector(n, strength float64) components.Vector {
	angle := n * 2 * math.Pi
	return components.Vec(math.Cos(angle), math.Sin(angle)).Scale(strength)
}
