package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flowfields/components"
)

// indexGenerator encodes the cell index in the vector.
func indexGenerator(col, row int, _ GridReader) components.Vector {
	return components.Vec(float64(col), float64(row))
}

func TestFlowGridDefaultsToZero(t *testing.T) {
	g := NewFlowGrid(3, 2, nil)
	if g.Cols() != 3 || g.Rows() != 2 {
		t.Fatalf("expected 3x2 grid, got %dx%d", g.Cols(), g.Rows())
	}
	g.ForEach(func(col, row int, v components.Vector) {
		if !v.IsZero() {
			t.Errorf("cell (%d,%d) = %v, want zero", col, row, v)
		}
	})
}

func TestFlowGridGeneratorOrder(t *testing.T) {
	var calls [][2]int
	NewFlowGrid(3, 2, func(col, row int, _ GridReader) components.Vector {
		calls = append(calls, [2]int{col, row})
		return components.Vector{}
	})

	want := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}
	if len(calls) != len(want) {
		t.Fatalf("expected %d generator calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestFlowGridAtFloorsFractionalIndices(t *testing.T) {
	g := NewFlowGrid(4, 3, indexGenerator)

	testCases := []struct {
		col, row float64
		want     components.Vector
	}{
		{0, 0, components.Vec(0, 0)},
		{0.99, 0.5, components.Vec(0, 0)},
		{1.0, 2.999, components.Vec(1, 2)},
		{3.5, 1.2, components.Vec(3, 1)},
	}

	for _, tc := range testCases {
		got, ok := g.At(tc.col, tc.row)
		if !ok {
			t.Errorf("At(%v, %v) reported absence", tc.col, tc.row)
			continue
		}
		if got != tc.want {
			t.Errorf("At(%v, %v) = %v, want %v", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestFlowGridAtOutOfRange(t *testing.T) {
	g := NewFlowGrid(4, 3, indexGenerator)

	outside := [][2]float64{
		{-0.001, 0},
		{0, -1},
		{4, 0},
		{0, 3},
		{4.5, 3.5},
		{math.NaN(), 0},
		{0, math.Inf(1)},
		{math.Inf(-1), 0},
		{1e300, 1e300},
	}
	for _, p := range outside {
		if v, ok := g.At(p[0], p[1]); ok {
			t.Errorf("At(%v, %v) = %v, expected absence", p[0], p[1], v)
		}
	}
}

func TestFlowGridEmpty(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {0, 5}, {5, 0}, {-1, -3}} {
		g := NewFlowGrid(dims[0], dims[1], indexGenerator)
		if _, ok := g.At(0, 0); ok {
			t.Errorf("grid %v: expected absence at origin", dims)
		}
	}
}

func TestFlowGridReaderSeesOnlyEarlierCells(t *testing.T) {
	NewFlowGrid(3, 3, func(col, row int, grid GridReader) components.Vector {
		for c := 0; c < grid.Cols(); c++ {
			for r := 0; r < grid.Rows(); r++ {
				_, ok := grid.At(float64(c), float64(r))
				earlier := c < col || (c == col && r < row)
				if ok != earlier {
					t.Errorf("generating (%d,%d): cell (%d,%d) visible=%v, want %v", col, row, c, r, ok, earlier)
				}
			}
		}
		return components.Vec(1, 1)
	})
}

func TestGridFromSurface(t *testing.T) {
	g, err := GridFromSurface(20, 20, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cols() != 2 || g.Rows() != 2 {
		t.Errorf("expected 2x2 grid, got %dx%d", g.Cols(), g.Rows())
	}

	g, err = GridFromSurface(1285, 723, 8, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cols() != 160 || g.Rows() != 90 {
		t.Errorf("expected 160x90 grid, got %dx%d", g.Cols(), g.Rows())
	}

	if _, err := GridFromSurface(20, 20, 0, nil); err == nil {
		t.Error("expected error for zero cell size")
	}
	if _, err := GridFromSurface(0, 20, 10, nil); err == nil {
		t.Error("expected error for zero width")
	}
}
