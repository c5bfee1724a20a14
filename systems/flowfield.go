// Package systems builds flow grids and the generators that fill them.
package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/flowfields/components"
)

// GridReader is a read-only view of a flow grid.
// Generators receive a GridReader bound to the partially built grid, so only
// cells generated earlier in iteration order are visible to them.
type GridReader interface {
	Cols() int
	Rows() int
	At(col, row float64) (components.Vector, bool)
}

// Generator produces the vector for a single grid cell.
type Generator func(col, row int, grid GridReader) components.Vector

// ZeroGenerator yields the zero vector for every cell.
func ZeroGenerator(int, int, GridReader) components.Vector {
	return components.Vector{}
}

// FlowGrid is a fixed cols x rows array of vectors, indexed [col][row].
// It is immutable after construction.
type FlowGrid struct {
	cols, rows int
	cells      [][]components.Vector
}

// NewFlowGrid builds a grid, invoking gen exactly once per cell with the
// outer loop over columns and the inner loop over rows.
// Negative dimensions are treated as zero. A nil gen yields zero vectors.
func NewFlowGrid(cols, rows int, gen Generator) *FlowGrid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if gen == nil {
		gen = ZeroGenerator
	}

	g := &FlowGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]components.Vector, 0, cols),
	}

	b := &gridBuilder{grid: g}
	for col := 0; col < cols; col++ {
		g.cells = append(g.cells, make([]components.Vector, 0, rows))
		for row := 0; row < rows; row++ {
			v := gen(col, row, b)
			g.cells[col] = append(g.cells[col], v)
		}
	}

	return g
}

// GridFromSurface builds a grid covering a surface of width x height pixels
// with square cells of cellSize pixels.
func GridFromSurface(width, height int, cellSize float64, gen Generator) (*FlowGrid, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("invalid cell size %v", cellSize)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("surface dimensions must be positive")
	}
	cols := int(math.Floor(float64(width) / cellSize))
	rows := int(math.Floor(float64(height) / cellSize))
	return NewFlowGrid(cols, rows, gen), nil
}

// Cols returns the number of columns.
func (g *FlowGrid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *FlowGrid) Rows() int { return g.rows }

// At floors col and row and returns the cell there. The second result is
// false when the floored indices fall outside the grid.
func (g *FlowGrid) At(col, row float64) (components.Vector, bool) {
	c, r, ok := cellIndex(col, row)
	if !ok || c >= len(g.cells) {
		return components.Vector{}, false
	}
	column := g.cells[c]
	if r >= len(column) {
		return components.Vector{}, false
	}
	return column[r], true
}

// ForEach calls fn for every cell in column-major order.
func (g *FlowGrid) ForEach(fn func(col, row int, v components.Vector)) {
	for c, column := range g.cells {
		for r, v := range column {
			fn(c, r, v)
		}
	}
}

// cellIndex floors fractional coordinates into non-negative integer indices.
func cellIndex(col, row float64) (int, int, bool) {
	fc := math.Floor(col)
	fr := math.Floor(row)
	// NaN fails both comparisons; the upper bound keeps the int conversion defined.
	if !(fc >= 0 && fr >= 0) || fc > math.MaxInt32 || fr > math.MaxInt32 {
		return 0, 0, false
	}
	return int(fc), int(fr), true
}

// gridBuilder exposes the cells populated so far while a grid is generated.
type gridBuilder struct {
	grid *FlowGrid
}

func (b *gridBuilder) Cols() int { return b.grid.cols }
func (b *gridBuilder) Rows() int { return b.grid.rows }

// At only sees cells that already exist in the backing store, which is
// exactly the set generated earlier in iteration order.
func (b *gridBuilder) At(col, row float64) (components.Vector, bool) {
	return b.grid.At(col, row)
}
