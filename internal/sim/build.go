package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/telemetry"
)

// Deps are the collaborators Build does not derive from the config file.
type Deps struct {
	// Registry defaults to ephem.DefaultRegistry.
	Registry *ephem.Registry
	// Registerer receives telemetry collectors. Nil disables telemetry.
	Registerer prometheus.Registerer
	Now        func() time.Time
	Logger     log.Logger
	Follow     string
	CopyBelt   bool
}

// Build is the composition root: one clock, one propagator and an optional
// belt, wired from cfg.
func Build(cfg *config.Config, d Deps) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = log.NewNopLogger()
	}
	if d.Registry == nil {
		d.Registry = ephem.DefaultRegistry()
	}
	tel := telemetry.New(d.Registerer)

	start, err := cfg.StartTime(d.Now())
	if err != nil {
		return nil, err
	}
	clk, err := clock.New(start, clock.Options{
		Scale:  cfg.Clock.Scale,
		Paused: cfg.Clock.Paused,
		Logger: d.Logger,
	})
	if err != nil {
		return nil, err
	}

	opts := ephem.DefaultOptions()
	opts.CacheTimeout = cfg.Cache.Timeout
	opts.CacheCapacity = cfg.Cache.Capacity
	opts.SceneScale = cfg.Scene.AUScale
	opts.MoonScale = cfg.Scene.MoonScale
	opts.Now = d.Now
	opts.Logger = d.Logger
	opts.Telemetry = tel
	prop, err := ephem.New(d.Registry, opts)
	if err != nil {
		return nil, err
	}

	var sched *ephem.BeltScheduler
	if cfg.Belt.Count > 0 {
		belt, err := ephem.NewBelt(ephem.BeltConfig{
			Count:          cfg.Belt.Count,
			InnerAU:        cfg.Belt.InnerAU,
			OuterAU:        cfg.Belt.OuterAU,
			MaxEcc:         cfg.Belt.MaxEcc,
			MaxInclination: cfg.Belt.MaxInclinationDeg * math.Pi / 180,
		}, rand.New(rand.NewSource(cfg.Belt.Seed)))
		if err != nil {
			return nil, fmt.Errorf("belt: %w", err)
		}
		sched, err = ephem.NewBeltScheduler(belt, cfg.Belt.Batch, cfg.Belt.NearAU, tel)
		if err != nil {
			return nil, fmt.Errorf("belt: %w", err)
		}
	}

	return New(clk, prop, Options{
		Belt:      sched,
		CopyBelt:  d.CopyBelt,
		Follow:    d.Follow,
		Now:       d.Now,
		Logger:    d.Logger,
		Telemetry: tel,
	})
}
