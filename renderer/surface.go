package renderer

import (
	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/systems"
)

// TrailSurface is the persistent image that trails accumulate on.
// Composite draws the brush over the existing contents without clearing them.
type TrailSurface interface {
	Size() (width, height int)
	Composite(b *Brush)
}

// DrawGridOverlay strokes every cell vector of grid from the cell midpoint
// onto trail. Used once before the loop starts.
func DrawGridOverlay(trail TrailSurface, grid *systems.FlowGrid, cellSize float64, style StrokeStyle) {
	if grid == nil || cellSize <= 0 {
		return
	}
	brush := NewBrush(style)
	half := cellSize / 2
	grid.ForEach(func(col, row int, v components.Vector) {
		mid := components.Vec(float64(col)*cellSize+half, float64(row)*cellSize+half)
		brush.Line(mid, mid.Add(v))
	})
	trail.Composite(brush)
}
