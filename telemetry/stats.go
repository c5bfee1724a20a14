// Package telemetry aggregates per-frame stats into windows and writes them
// to CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowfields/components"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	RunID            string  `csv:"run_id"`
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	Frames           int     `csv:"frames"`
	Population       int     `csv:"population"`
	Updates          int     `csv:"updates"`     // Entity updates during the window
	OffGridFrac      float64 `csv:"off_grid"`    // Share of updates with no cell under the entity
	Segments         int     `csv:"segments"`    // Segments composited during the window
	OnSurface        int     `csv:"on_surface"`  // Entities inside the surface at window end
	SpeedMean        float64 `csv:"speed_mean"`
	SpeedStd         float64 `csv:"speed_std"`
	SpeedP10         float64 `csv:"speed_p10"`
	SpeedP50         float64 `csv:"speed_p50"`
	SpeedP90         float64 `csv:"speed_p90"`
}

// SpeedStats returns the mean, standard deviation and 10/50/90th percentiles
// of the entity speeds. All values are zero for an empty population.
func SpeedStats(entities []components.Entity) (mean, std, p10, p50, p90 float64) {
	if len(entities) == 0 {
		return 0, 0, 0, 0, 0
	}
	speeds := make([]float64, len(entities))
	for i, e := range entities {
		speeds[i] = e.Velocity.Length()
	}
	mean, std = stat.PopMeanStdDev(speeds, nil)

	sort.Float64s(speeds)
	p10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Int("population", s.Population),
		slog.Int("updates", s.Updates),
		slog.Float64("off_grid", s.OffGridFrac),
		slog.Int("segments", s.Segments),
		slog.Int("on_surface", s.OnSurface),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
