package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/flowfields/components"
)

func TestNewGeneratorUnknown(t *testing.T) {
	_, err := NewGenerator("vortex", GeneratorParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vortex")
}

func TestGeneratorNamesRegistered(t *testing.T) {
	for _, name := range GeneratorNames() {
		gen, err := NewGenerator(name, GeneratorParams{CellSize: 8, Strength: 1, Seed: 7})
		require.NoError(t, err, name)
		g := NewFlowGrid(5, 4, gen)
		g.ForEach(func(col, row int, v components.Vector) {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Errorf("%s: NaN at (%d,%d)", name, col, row)
			}
		})
	}
}

func TestUniformGenerator(t *testing.T) {
	g := NewFlowGrid(2, 2, UniformGenerator(components.Vec(1, 0)))
	g.ForEach(func(col, row int, v components.Vector) {
		if v != components.Vec(1, 0) {
			t.Errorf("cell (%d,%d) = %v, want (1,0)", col, row, v)
		}
	})
}

func TestWaveGenerator(t *testing.T) {
	const cellSize = 8
	const width = 320
	g := NewFlowGrid(4, 2, WaveGenerator(cellSize, width))

	g.ForEach(func(col, row int, v components.Vector) {
		assert.InDelta(t, cellSize/4.0, v.Length(), 1e-9)
		// cos(3*pi) is -1, so every vector points upward
		assert.Less(t, v.Y, 0.0)

		// Direction is (cos(2*pi*col/width), -1)
		want := math.Cos(2 * math.Pi * float64(col) / width)
		assert.InDelta(t, want, -v.X/v.Y, 1e-9, "cell (%d,%d)", col, row)
	})
}

func TestWaveGeneratorColumnsAgainstPixelWidth(t *testing.T) {
	// 160 columns of 8 pixels on a 1280 wide surface reach col/width = 0.124,
	// well short of a full period
	g := NewFlowGrid(160, 1, WaveGenerator(8, 1280))
	last, ok := g.At(159, 0)
	require.True(t, ok)
	assert.InDelta(t, math.Cos(2*math.Pi*159/1280), -last.X/last.Y, 1e-9)
	assert.Greater(t, last.X, 0.0)
}

func TestWaveGeneratorWidthFallback(t *testing.T) {
	a := NewFlowGrid(4, 1, WaveGenerator(8, 0))
	b := NewFlowGrid(4, 1, WaveGenerator(8, 32))
	a.ForEach(func(col, row int, v components.Vector) {
		w, _ := b.At(float64(col), float64(row))
		assert.Equal(t, w, v)
	})
}

func TestNoiseGeneratorsDeterministic(t *testing.T) {
	p := GeneratorParams{Strength: 2, NoiseScale: 0.1, Seed: 42}
	for _, f := range []GeneratorFactory{SimplexGenerator, PerlinGenerator} {
		a := NewFlowGrid(6, 6, f(p))
		b := NewFlowGrid(6, 6, f(p))
		a.ForEach(func(col, row int, v components.Vector) {
			w, _ := b.At(float64(col), float64(row))
			if v != w {
				t.Errorf("cell (%d,%d) differs between runs: %v vs %v", col, row, v, w)
			}
			assert.InDelta(t, 2.0, v.Length(), 1e-9)
		})
	}
}

func TestSmoothBlendsEarlierNeighbours(t *testing.T) {
	// Column 0 is (0,0), everything after is (2,0) before smoothing
	base := func(col, _ int, _ GridReader) components.Vector {
		if col == 0 {
			return components.Vector{}
		}
		return components.Vec(2, 0)
	}
	g := NewFlowGrid(2, 1, Smooth(base, 0.5))

	first, _ := g.At(0, 0)
	if !first.IsZero() {
		t.Errorf("first cell has no neighbours and should be unchanged, got %v", first)
	}

	second, _ := g.At(1, 0)
	// Half of (2,0) plus half of the left neighbour (0,0)
	assert.InDelta(t, 1.0, second.X, 1e-12)
	assert.InDelta(t, 0.0, second.Y, 1e-12)
}

func TestSmoothKeepOneIsIdentity(t *testing.T) {
	a := NewFlowGrid(4, 4, indexGenerator)
	b := NewFlowGrid(4, 4, Smooth(indexGenerator, 1))
	a.ForEach(func(col, row int, v components.Vector) {
		w, _ := b.At(float64(col), float64(row))
		if v != w {
			t.Errorf("cell (%d,%d): %v != %v", col, row, v, w)
		}
	})
}
