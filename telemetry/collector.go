package telemetry

import (
	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/renderer"
)

// Collector accumulates frame stats within windows and produces WindowStats.
type Collector struct {
	windowFrames     uint64
	windowStartFrame uint64
	lastFrame        uint64

	frames   int
	updates  int
	offGrid  int
	segments int
}

// NewCollector creates a collector that closes a window every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: uint64(windowFrames)}
}

// Observe records a completed frame.
func (c *Collector) Observe(fs renderer.FrameStats) {
	c.frames++
	c.updates += fs.Entities
	c.offGrid += fs.OffGrid
	c.segments += fs.Segments
	c.lastFrame = fs.Frame
}

// ShouldFlush returns true once a full window of frames has been observed.
func (c *Collector) ShouldFlush() bool {
	return c.lastFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats for the population snapshot and resets the
// counters. width and height bound the surface for the on-surface count.
func (c *Collector) Flush(entities []components.Entity, width, height int) WindowStats {
	mean, std, p10, p50, p90 := SpeedStats(entities)

	onSurface := 0
	for _, e := range entities {
		p := e.Position
		if p.X >= 0 && p.Y >= 0 && p.X < float64(width) && p.Y < float64(height) {
			onSurface++
		}
	}

	var offGridFrac float64
	if c.updates > 0 {
		offGridFrac = float64(c.offGrid) / float64(c.updates)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.lastFrame,
		Frames:           c.frames,
		Population:       len(entities),
		Updates:          c.updates,
		OffGridFrac:      offGridFrac,
		Segments:         c.segments,
		OnSurface:        onSurface,
		SpeedMean:        mean,
		SpeedStd:         std,
		SpeedP10:         p10,
		SpeedP50:         p50,
		SpeedP90:         p90,
	}

	c.windowStartFrame = c.lastFrame
	c.frames = 0
	c.updates = 0
	c.offGrid = 0
	c.segments = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return int(c.windowFrames)
}
