package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/clock"
)

const (
	DefaultScale         = 1.0
	DefaultCacheTimeout  = time.Second
	DefaultCacheCapacity = 512
	DefaultBeltCount     = 2000
	DefaultBeltBatch     = 200
	DefaultNearAU        = 0.3
	DefaultFPS           = 60.0
	DefaultFrames        = 600
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Clock ClockConfig `yaml:"clock"`
	Cache CacheConfig `yaml:"cache"`
	Scene SceneConfig `yaml:"scene"`
	Belt  BeltConfig  `yaml:"belt"`
	Run   RunConfig   `yaml:"run"`
}

type ClockConfig struct {
	// Start is parsed with clock.ParseDate. Empty means the current time.
	Start  string  `yaml:"start"`
	Scale  float64 `yaml:"scale"`
	Paused bool    `yaml:"paused"`
}

type CacheConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	Capacity int           `yaml:"capacity"`
}

type SceneConfig struct {
	AUScale   float64 `yaml:"au_scale"`
	MoonScale float64 `yaml:"moon_scale"`
}

type BeltConfig struct {
	Count             int     `yaml:"count"`
	InnerAU           float64 `yaml:"inner_au"`
	OuterAU           float64 `yaml:"outer_au"`
	MaxEcc            float64 `yaml:"max_ecc"`
	MaxInclinationDeg float64 `yaml:"max_inclination_deg"`
	Seed              int64   `yaml:"seed"`
	Batch             int     `yaml:"batch"`
	// NearAU is the observer distance inside which a minor body updates every frame.
	NearAU float64 `yaml:"near_au"`
}

type RunConfig struct {
	FPS    float64 `yaml:"fps"`
	Frames int     `yaml:"frames"`
}

func DefaultConfig() *Config {
	return &Config{
		Clock: ClockConfig{Scale: DefaultScale},
		Cache: CacheConfig{
			Timeout:  DefaultCacheTimeout,
			Capacity: DefaultCacheCapacity,
		},
		Scene: SceneConfig{AUScale: 1, MoonScale: 1},
		Belt: BeltConfig{
			Count:             DefaultBeltCount,
			InnerAU:           2.2,
			OuterAU:           3.3,
			MaxEcc:            0.2,
			MaxInclinationDeg: 20,
			Seed:              1,
			Batch:             DefaultBeltBatch,
			NearAU:            DefaultNearAU,
		},
		Run: RunConfig{FPS: DefaultFPS, Frames: DefaultFrames},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// StartTime resolves Clock.Start, falling back to now when it is empty.
func (c *Config) StartTime(now time.Time) (time.Time, error) {
	if c.Clock.Start == "" {
		return now.UTC(), nil
	}
	return clock.ParseDate(c.Clock.Start)
}

// SetSpeed replaces the scale magnitude with a named clock preset, keeping
// the current direction.
func (c *Config) SetSpeed(name string) error {
	s, err := clock.PresetScale(name)
	if err != nil {
		return err
	}
	if c.Clock.Scale < 0 {
		s = -s
	}
	c.Clock.Scale = s
	return nil
}

// Validate reports every problem at once, each wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Clock.Scale == 0 || math.IsNaN(c.Clock.Scale) || math.IsInf(c.Clock.Scale, 0) {
		bad("clock.scale must be a finite non-zero number, got %v", c.Clock.Scale)
	}
	if c.Clock.Start != "" {
		if _, err := clock.ParseDate(c.Clock.Start); err != nil {
			bad("clock.start: %v", err)
		}
	}
	if c.Cache.Timeout <= 0 {
		bad("cache.timeout must be positive, got %v", c.Cache.Timeout)
	}
	if c.Cache.Capacity <= 0 {
		bad("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Scene.AUScale <= 0 || c.Scene.MoonScale <= 0 {
		bad("scene scales must be positive")
	}

	b := c.Belt
	if b.Count < 0 {
		bad("belt.count must not be negative, got %d", b.Count)
	}
	if b.InnerAU <= 0 || b.OuterAU <= b.InnerAU {
		bad("belt range [%v, %v) AU is empty", b.InnerAU, b.OuterAU)
	}
	if b.MaxEcc < 0 || b.MaxEcc > 0.2 {
		bad("belt.max_ecc must be in [0, 0.2], got %v", b.MaxEcc)
	}
	if b.MaxInclinationDeg < 0 || b.MaxInclinationDeg > 180 {
		bad("belt.max_inclination_deg must be in [0, 180], got %v", b.MaxInclinationDeg)
	}
	if b.Batch <= 0 {
		bad("belt.batch must be positive, got %d", b.Batch)
	}
	if b.NearAU < 0 {
		bad("belt.near_au must not be negative, got %v", b.NearAU)
	}

	if c.Run.FPS < 0 || math.IsNaN(c.Run.FPS) {
		bad("run.fps must not be negative, got %v", c.Run.FPS)
	}
	if c.Run.Frames <= 0 {
		bad("run.frames must be positive, got %d", c.Run.Frames)
	}
	return errors.Join(errs...)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
