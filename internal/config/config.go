package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
)

const (
	DefaultScene       = "pair"
	DefaultDim         = 3
	DefaultGravity     = 9.81
	DefaultGravityAxis = 2
	DefaultSpringK     = 16.0
	DefaultRepulsionK  = 100.0
	DefaultDt          = 1.0 / 600
	DefaultSubsteps    = 10
	DefaultFrames      = 600
	DefaultFloor       = 3.0
	DefaultBodies      = 6

	// EnabledDamping is the drag coefficient used when damping is switched on.
	EnabledDamping = 0.5
)

type Config struct {
	Scene string `yaml:"scene"`
	Dim   int    `yaml:"dim"`
	// Bodies is only read by scenes with a variable body count.
	Bodies int `yaml:"bodies"`
	// Gravity is the downward acceleration along GravityAxis.
	Gravity     float64       `yaml:"gravity"`
	GravityAxis int           `yaml:"gravity_axis"`
	Damping     float64       `yaml:"damping"`
	SpringK     float64       `yaml:"spring_k"`
	RepulsionK  float64       `yaml:"repulsion_k"`
	Dt          float64       `yaml:"dt"`
	Substeps    int           `yaml:"substeps"`
	Frames      int           `yaml:"frames"`
	Floor       float64       `yaml:"floor"`
	Display     DisplayConfig `yaml:"display"`
}

// DisplayConfig is passed through to renderers untouched.
type DisplayConfig struct {
	LineWidth   float64 `yaml:"line_width"`
	PointRadius float64 `yaml:"point_radius"`
	Animate     bool    `yaml:"animate"`
	Scale       float64 `yaml:"scale"`
}

func DefaultDisplay() DisplayConfig {
	return DisplayConfig{LineWidth: 3, PointRadius: 2, Animate: true, Scale: 0.75}
}

// DefaultConfig is the conservative reference run: two mirrored cubes,
// no damping.
func DefaultConfig() *Config {
	return &Config{
		Scene:       DefaultScene,
		Dim:         DefaultDim,
		Bodies:      DefaultBodies,
		Gravity:     DefaultGravity,
		GravityAxis: DefaultGravityAxis,
		SpringK:     DefaultSpringK,
		RepulsionK:  DefaultRepulsionK,
		Dt:          DefaultDt,
		Substeps:    DefaultSubsteps,
		Frames:      DefaultFrames,
		Floor:       DefaultFloor,
		Display:     DefaultDisplay(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field against its bounds. Errors wrap
// dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...)
	}
	switch {
	case c.Scene == "":
		return bad("scene is empty")
	case c.Dim < 2 || c.Dim > ga.MaxDim:
		return bad("dim must be in 2..%d, got %d", ga.MaxDim, c.Dim)
	case c.GravityAxis < 1 || c.GravityAxis > c.Dim:
		return bad("gravity_axis must be in 1..%d, got %d", c.Dim, c.GravityAxis)
	case c.Damping < 0:
		return bad("damping must be non-negative, got %v", c.Damping)
	case c.SpringK < 0:
		return bad("spring_k must be non-negative, got %v", c.SpringK)
	case c.RepulsionK < 0:
		return bad("repulsion_k must be non-negative, got %v", c.RepulsionK)
	case c.Dt <= 0:
		return bad("dt must be positive, got %v", c.Dt)
	case c.Substeps < 1:
		return bad("substeps must be at least 1, got %d", c.Substeps)
	case c.Frames < 0:
		return bad("frames must be non-negative, got %d", c.Frames)
	case c.Display.Scale <= 0:
		return bad("display.scale must be positive, got %v", c.Display.Scale)
	}
	return nil
}

// Params converts the configuration into simulation parameters. Gravity
// points toward negative GravityAxis.
func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Dim:         c.Dim,
		Gravity:     -c.Gravity,
		GravityAxis: c.GravityAxis,
		Damping:     c.Damping,
		K:           c.SpringK,
		RepK:        c.RepulsionK,
		Dt:          c.Dt,
		Substeps:    c.Substeps,
	}
}

// FrameTime is the simulated time covered by one frame.
func (c *Config) FrameTime() float64 {
	return c.Dt * float64(c.Substeps)
}

// Set assigns a numeric field by its YAML key. Integer fields reject
// fractional values. The result is not validated.
func (c *Config) Set(key string, v float64) error {
	integer := func(dst *int) error {
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: %s must be an integer, got %v", dynamo.ErrParameterBounds, key, v)
		}
		*dst = int(v)
		return nil
	}

	switch key {
	case "dim":
		return integer(&c.Dim)
	case "bodies":
		return integer(&c.Bodies)
	case "gravity_axis":
		return integer(&c.GravityAxis)
	case "substeps":
		return integer(&c.Substeps)
	case "frames":
		return integer(&c.Frames)
	case "gravity":
		c.Gravity = v
	case "damping":
		c.Damping = v
	case "spring_k":
		c.SpringK = v
	case "repulsion_k":
		c.RepulsionK = v
	case "dt":
		c.Dt = v
	case "floor":
		c.Floor = v
	default:
		return fmt.Errorf("unknown parameter: %s", key)
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
