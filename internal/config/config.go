package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/atomsim/internal/physics"
)

const (
	DefaultTicks       = 500
	DefaultSampleEvery = 1
	DefaultSeed        = 1
	DefaultWidth       = 320.0
	DefaultHeight      = 200.0

	// EnvPrefix is prepended to every environment override, e.g.
	// ATOMSIM_TICKS or ATOMSIM_PHYSICS_JITTER.
	EnvPrefix = "ATOMSIM"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes one scenario: the atoms to place and how long to run.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Ticks       int           `yaml:"ticks" mapstructure:"ticks"`
	SampleEvery int           `yaml:"sample_every" mapstructure:"sample_every"`
	Seed        int64         `yaml:"seed" mapstructure:"seed"`
	Width       float64       `yaml:"width" mapstructure:"width"`
	Height      float64       `yaml:"height" mapstructure:"height"`
	Physics     PhysicsConfig `yaml:"physics" mapstructure:"physics"`
	Atoms       []AtomConfig  `yaml:"atoms" mapstructure:"atoms"`
	Electrons   []BodyConfig  `yaml:"electrons,omitempty" mapstructure:"electrons"`
	Metrics     []string      `yaml:"metrics,omitempty" mapstructure:"metrics"`
}

type PhysicsConfig struct {
	ShellInterval        float64 `yaml:"shell_interval" mapstructure:"shell_interval"`
	ElectricForceScale   float64 `yaml:"electric_force_scale" mapstructure:"electric_force_scale"`
	Jitter               float64 `yaml:"jitter" mapstructure:"jitter"`
	PairAttraction       float64 `yaml:"pair_attraction" mapstructure:"pair_attraction"`
	ShellForceConstant   float64 `yaml:"shell_force_constant" mapstructure:"shell_force_constant"`
	MinDistance          float64 `yaml:"min_distance" mapstructure:"min_distance"`
	TimeStep             float64 `yaml:"time_step" mapstructure:"time_step"`
	ShellMemory          int     `yaml:"shell_memory" mapstructure:"shell_memory"`
	InstabilityThreshold float64 `yaml:"instability_threshold" mapstructure:"instability_threshold"`
}

// AtomConfig places a nucleus and, unless Bare is set, a neutral electron
// cloud around it.
type AtomConfig struct {
	X       float64 `yaml:"x" mapstructure:"x"`
	Y       float64 `yaml:"y" mapstructure:"y"`
	Protons int     `yaml:"protons" mapstructure:"protons"`
	Angle   float64 `yaml:"angle" mapstructure:"angle"`
	VX      float64 `yaml:"vx" mapstructure:"vx"`
	VY      float64 `yaml:"vy" mapstructure:"vy"`
	Bare    bool    `yaml:"bare,omitempty" mapstructure:"bare"`
}

// BodyConfig places a single free electron.
type BodyConfig struct {
	X  float64 `yaml:"x" mapstructure:"x"`
	Y  float64 `yaml:"y" mapstructure:"y"`
	VX float64 `yaml:"vx" mapstructure:"vx"`
	VY float64 `yaml:"vy" mapstructure:"vy"`
}

func DefaultPhysics() PhysicsConfig {
	p := physics.DefaultParams()
	return PhysicsConfig{
		ShellInterval:        p.ShellInterval,
		ElectricForceScale:   p.ElectricForceScale,
		Jitter:               p.Jitter,
		PairAttraction:       p.PairAttraction,
		ShellForceConstant:   p.ShellForceConstant,
		MinDistance:          p.MinDistance,
		TimeStep:             p.TimeStep,
		ShellMemory:          p.ShellMemory,
		InstabilityThreshold: p.InstabilityThreshold,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "carbon",
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
		Seed:        DefaultSeed,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Physics:     DefaultPhysics(),
		Atoms: []AtomConfig{
			{X: DefaultWidth / 2, Y: DefaultHeight / 2, Protons: 6},
		},
	}
}

// Params converts the physics section into simulation parameters.
func (c *Config) Params() physics.Params {
	return physics.Params{
		ShellInterval:        c.Physics.ShellInterval,
		ElectricForceScale:   c.Physics.ElectricForceScale,
		Jitter:               c.Physics.Jitter,
		PairAttraction:       c.Physics.PairAttraction,
		ShellForceConstant:   c.Physics.ShellForceConstant,
		MinDistance:          c.Physics.MinDistance,
		TimeStep:             c.Physics.TimeStep,
		ShellMemory:          c.Physics.ShellMemory,
		InstabilityThreshold: c.Physics.InstabilityThreshold,
	}
}

// PhysicsKeys lists the names accepted by PhysicsConfig.Set.
var PhysicsKeys = []string{
	"shell_interval",
	"electric_force_scale",
	"jitter",
	"pair_attraction",
	"shell_force_constant",
	"min_distance",
	"time_step",
	"shell_memory",
	"instability_threshold",
}

// Set assigns one physics field by its yaml key. shell_memory is truncated
// to an integer.
func (p *PhysicsConfig) Set(key string, v float64) error {
	switch key {
	case "shell_interval":
		p.ShellInterval = v
	case "electric_force_scale":
		p.ElectricForceScale = v
	case "jitter":
		p.Jitter = v
	case "pair_attraction":
		p.PairAttraction = v
	case "shell_force_constant":
		p.ShellForceConstant = v
	case "min_distance":
		p.MinDistance = v
	case "time_step":
		p.TimeStep = v
	case "shell_memory":
		p.ShellMemory = int(v)
	case "instability_threshold":
		p.InstabilityThreshold = v
	default:
		return fmt.Errorf("%w: unknown physics parameter %q", ErrInvalidConfig, key)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, c.Ticks)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must be non-negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: scene size must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if len(c.Atoms) == 0 && len(c.Electrons) == 0 {
		return fmt.Errorf("%w: no atoms or electrons", ErrInvalidConfig)
	}
	for i, a := range c.Atoms {
		if a.Protons <= 0 {
			return fmt.Errorf("%w: atom %d: protons must be positive, got %d", ErrInvalidConfig, i, a.Protons)
		}
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Atoms = append([]AtomConfig(nil), c.Atoms...)
	out.Electrons = append([]BodyConfig(nil), c.Electrons...)
	out.Metrics = append([]string(nil), c.Metrics...)
	return &out
}

// newViper returns a viper instance seeded with the default values, so
// environment overrides apply to keys missing from the file.
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("ticks", def.Ticks)
	v.SetDefault("sample_every", def.SampleEvery)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("width", def.Width)
	v.SetDefault("height", def.Height)
	v.SetDefault("physics.shell_interval", def.Physics.ShellInterval)
	v.SetDefault("physics.electric_force_scale", def.Physics.ElectricForceScale)
	v.SetDefault("physics.jitter", def.Physics.Jitter)
	v.SetDefault("physics.pair_attraction", def.Physics.PairAttraction)
	v.SetDefault("physics.shell_force_constant", def.Physics.ShellForceConstant)
	v.SetDefault("physics.min_distance", def.Physics.MinDistance)
	v.SetDefault("physics.time_step", def.Physics.TimeStep)
	v.SetDefault("physics.shell_memory", def.Physics.ShellMemory)
	v.SetDefault("physics.instability_threshold", def.Physics.InstabilityThreshold)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads a YAML scenario file. Missing scalar keys take their default
// values and every scalar key can be overridden from the environment.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &cfg, nil
}

// UnmarshalYAML fills keys missing from the document with their default
// values, as Load does. Atoms are not defaulted.
func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	type plain Config
	out := plain(*DefaultConfig())
	out.Atoms = nil
	if err := n.Decode(&out); err != nil {
		return err
	}
	*c = Config(out)
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

