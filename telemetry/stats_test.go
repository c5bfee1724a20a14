package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/renderer"
)

func entitiesWithSpeeds(speeds ...float64) []components.Entity {
	out := make([]components.Entity, len(speeds))
	for i, s := range speeds {
		out[i] = components.Entity{Velocity: components.Vec(0, s)}
	}
	return out
}

func TestSpeedStats(t *testing.T) {
	mean, std, p10, p50, p90 := SpeedStats(entitiesWithSpeeds(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Population std of 1..10 is sqrt(8.25)
	if math.Abs(std-math.Sqrt(8.25)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(8.25))
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", p10, p50, p90)
	}
}

func TestSpeedStatsUnsortedInput(t *testing.T) {
	_, _, p10, p50, p90 := SpeedStats(entitiesWithSpeeds(10, 1, 9, 2, 8, 3, 7, 4, 6, 5))
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", p10, p50, p90)
	}
}

func TestSpeedStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := SpeedStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("empty population should give zeros, got %v %v %v %v %v", mean, std, p10, p50, p90)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(3)

	for frame := uint64(1); frame <= 2; frame++ {
		c.Observe(renderer.FrameStats{Frame: frame, StepStats: renderer.StepStats{Entities: 4, OffGrid: 1, Segments: 4}})
		if c.ShouldFlush() {
			t.Fatalf("window flushed early at frame %d", frame)
		}
	}
	c.Observe(renderer.FrameStats{Frame: 3, StepStats: renderer.StepStats{Entities: 4, OffGrid: 1, Segments: 4}})
	if !c.ShouldFlush() {
		t.Fatal("window should flush after 3 frames")
	}

	pop := []components.Entity{
		{Position: components.Vec(5, 5), Velocity: components.Vec(1, 0)},
		{Position: components.Vec(-1, 5), Velocity: components.Vec(3, 0)},
	}
	stats := c.Flush(pop, 20, 20)

	if stats.Frames != 3 {
		t.Errorf("Frames = %d, want 3", stats.Frames)
	}
	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 3 {
		t.Errorf("window = [%d, %d], want [0, 3]", stats.WindowStartFrame, stats.WindowEndFrame)
	}
	if stats.Updates != 12 || stats.Segments != 12 {
		t.Errorf("updates/segments = %d/%d, want 12/12", stats.Updates, stats.Segments)
	}
	if math.Abs(stats.OffGridFrac-0.25) > 1e-9 {
		t.Errorf("OffGridFrac = %v, want 0.25", stats.OffGridFrac)
	}
	if stats.Population != 2 || stats.OnSurface != 1 {
		t.Errorf("population/on surface = %d/%d, want 2/1", stats.Population, stats.OnSurface)
	}
	if stats.SpeedMean != 2 {
		t.Errorf("SpeedMean = %v, want 2", stats.SpeedMean)
	}

	// Counters reset for the next window
	if c.ShouldFlush() {
		t.Error("collector should not flush right after a flush")
	}
	c.Observe(renderer.FrameStats{Frame: 4})
	next := c.Flush(nil, 20, 20)
	if next.Frames != 1 || next.Updates != 0 || next.WindowStartFrame != 3 {
		t.Errorf("next window = %+v", next)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowFrames() != 1 {
		t.Errorf("WindowFrames = %d, want 1", c.WindowFrames())
	}
}
