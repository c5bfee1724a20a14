// Package config provides configuration loading and access for the flow field.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Entities   EntitiesConfig   `yaml:"entities"`
	Style      StyleConfig      `yaml:"style"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds surface settings.
type ScreenConfig struct {
	Width     int    `yaml:"width" validate:"gt=0"`
	Height    int    `yaml:"height" validate:"gt=0"`
	TargetFPS int    `yaml:"target_fps" validate:"gt=0"`
	Title     string `yaml:"title"`
	ShowHUD   bool   `yaml:"show_hud"`
}

// GridConfig holds flow grid generation parameters.
type GridConfig struct {
	CellSize   float64 `yaml:"cell_size" validate:"gt=0"`
	Generator  string  `yaml:"generator" validate:"oneof=zero uniform wave simplex perlin"`
	Strength   float64 `yaml:"strength"`    // Magnitude of noise vectors
	NoiseScale float64 `yaml:"noise_scale"` // Noise frequency per cell
	Seed       int64   `yaml:"seed"`        // 0 = use run seed
	UniformX   float64 `yaml:"uniform_x"`
	UniformY   float64 `yaml:"uniform_y"`
	Smooth     float64 `yaml:"smooth" validate:"gte=0,lte=1"` // Share kept by each cell; 1 = no smoothing
}

// SimulationConfig holds the parameters bound to every frame.
type SimulationConfig struct {
	Weight      float64 `yaml:"weight"`
	MaxVelocity float64 `yaml:"max_velocity" validate:"gte=0"`
	Iterations  int     `yaml:"iterations" validate:"gte=1"`
}

// EntitiesConfig holds population seeding parameters.
type EntitiesConfig struct {
	Count        int     `yaml:"count" validate:"gte=0"`
	Placement    string  `yaml:"placement" validate:"oneof=random grid left_edge"`
	InitialVX    float64 `yaml:"initial_vx"`
	InitialVY    float64 `yaml:"initial_vy"`
	Seed         int64   `yaml:"seed"`           // 0 = use run seed
	DripPerFrame int     `yaml:"drip_per_frame" validate:"gte=0"` // Entities dropped per frame while running
	MaxCount     int     `yaml:"max_count" validate:"gte=0"`      // Cap for dripping (0 = unlimited)
}

// StyleConfig holds drawing parameters.
type StyleConfig struct {
	StrokeColor string  `yaml:"stroke_color" validate:"hexcolor,len=7|len=4"`
	StrokeAlpha float64 `yaml:"stroke_alpha" validate:"gte=0,lte=1"`
	StrokeWidth float64 `yaml:"stroke_width" validate:"gt=0"`
	Background  string  `yaml:"background" validate:"hexcolor,len=7|len=4"`
	DrawGrid    bool    `yaml:"draw_grid"`
	GridColor   string  `yaml:"grid_color" validate:"hexcolor,len=7|len=4"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window" validate:"gt=0"` // Seconds of frames per stats record
	PerfWindow  int     `yaml:"perf_window" validate:"gt=0"`  // Frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cols        int         // floor(Screen.Width / Grid.CellSize)
	Rows        int         // floor(Screen.Height / Grid.CellSize)
	StrokeColor color.NRGBA // StrokeColor with StrokeAlpha applied
	Background  color.NRGBA
	GridColor   color.NRGBA
	StatsFrames int // Frames per stats window at TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a configuration from YAML data layered over the embedded
// defaults. Empty data yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Unmarshal into same struct - only overwrites fields present in data
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Cols = int(math.Floor(float64(c.Screen.Width) / c.Grid.CellSize))
	c.Derived.Rows = int(math.Floor(float64(c.Screen.Height) / c.Grid.CellSize))

	var err error
	if c.Derived.StrokeColor, err = parseColor(c.Style.StrokeColor, c.Style.StrokeAlpha); err != nil {
		return fmt.Errorf("style.stroke_color: %w", err)
	}
	if c.Derived.Background, err = parseColor(c.Style.Background, 1); err != nil {
		return fmt.Errorf("style.background: %w", err)
	}
	if c.Derived.GridColor, err = parseColor(c.Style.GridColor, 1); err != nil {
		return fmt.Errorf("style.grid_color: %w", err)
	}

	c.Derived.StatsFrames = int(math.Round(c.Telemetry.StatsWindow * float64(c.Screen.TargetFPS)))
	if c.Derived.StatsFrames < 1 {
		c.Derived.StatsFrames = 1
	}
	return nil
}

func parseColor(hex string, alpha float64) (color.NRGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
