package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Screen.Width)
	assert.Equal(t, 720, cfg.Screen.Height)
	assert.Equal(t, 8.0, cfg.Grid.CellSize)
	assert.Equal(t, "simplex", cfg.Grid.Generator)
	assert.Equal(t, 1, cfg.Simulation.Iterations)
	assert.Equal(t, 5.0, cfg.Simulation.MaxVelocity)

	assert.Equal(t, 160, cfg.Derived.Cols)
	assert.Equal(t, 90, cfg.Derived.Rows)
	assert.Equal(t, 300, cfg.Derived.StatsFrames)
}

func TestParseOverlay(t *testing.T) {
	cfg, err := Parse([]byte(`
grid:
  cell_size: 10
  generator: wave
entities:
  count: 20
`))
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Grid.CellSize)
	assert.Equal(t, "wave", cfg.Grid.Generator)
	assert.Equal(t, 20, cfg.Entities.Count)
	assert.Equal(t, 128, cfg.Derived.Cols)
	assert.Equal(t, 72, cfg.Derived.Rows)

	// Fields absent from the overlay keep their defaults
	assert.Equal(t, 1280, cfg.Screen.Width)
	assert.Equal(t, "random", cfg.Entities.Placement)
}

func TestDerivedColors(t *testing.T) {
	cfg, err := Parse([]byte(`
style:
  stroke_color: "#ff0000"
  stroke_alpha: 0.5
  background: "#000000"
  grid_color: "#00ff00"
`))
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{R: 255, A: 128}, cfg.Derived.StrokeColor)
	assert.Equal(t, color.NRGBA{A: 255}, cfg.Derived.Background)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, cfg.Derived.GridColor)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero cell size", "grid:\n  cell_size: 0\n"},
		{"unknown generator", "grid:\n  generator: spiral\n"},
		{"no iterations", "simulation:\n  iterations: 0\n"},
		{"negative max velocity", "simulation:\n  max_velocity: -1\n"},
		{"bad colour", "style:\n  background: green\n"},
		{"alpha out of range", "style:\n  stroke_alpha: 2\n"},
		{"unknown placement", "entities:\n  placement: spiral\n"},
		{"smooth out of range", "grid:\n  smooth: 1.5\n"},
		{"malformed yaml", "grid: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestHexColorForms(t *testing.T) {
	cfg, err := Parse([]byte("style:\n  background: \"#fff\"\n"))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, cfg.Derived.Background)

	for _, hex := range []string{"#ffffff80", "#ffff"} {
		t.Run(hex, func(t *testing.T) {
			_, err := Parse([]byte("style:\n  grid_color: \"" + hex + "\"\n"))
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, "GridColor", verrs[0].Field())
		})
	}
}

func TestLoadAndWriteYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screen:\n  width: 200\n  height: 100\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Screen.Width)

	out := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(out))

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Screen, again.Screen)
	assert.Equal(t, cfg.Derived, again.Derived)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCfgAfterInit(t *testing.T) {
	require.NoError(t, Init(""))
	assert.Equal(t, 1280, Cfg().Screen.Width)
}
