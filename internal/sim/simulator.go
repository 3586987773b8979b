package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/telemetry"
)

type Options struct {
	Belt *ephem.BeltScheduler
	// CopyBelt puts minor-body states into every frame.
	CopyBelt bool
	// Follow makes the observer track a body's position in the frame being built.
	Follow string

	Now       func() time.Time
	Logger    log.Logger
	Telemetry *telemetry.Collectors
}

// Simulator owns one clock and one propagator and steps them in order.
type Simulator struct {
	clock *clock.Clock
	prop  *ephem.Propagator
	belt  *ephem.BeltScheduler
	opts  Options

	logger log.Logger
	tel    *telemetry.Collectors

	metrics   []Metric
	observers []Observer
	frames    int
	observer  r3.Vec
}

func New(c *clock.Clock, p *ephem.Propagator, opts Options) (*Simulator, error) {
	if c == nil || p == nil {
		return nil, errors.New("sim: clock and propagator are required")
	}
	if opts.Follow != "" {
		opts.Follow = ephem.NormalizeID(opts.Follow)
		if _, ok := p.Registry().Lookup(opts.Follow); !ok {
			return nil, &ephem.BodyError{Body: opts.Follow, Err: ephem.ErrUnknownBody}
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	return &Simulator{
		clock:     c,
		prop:      p,
		belt:      opts.Belt,
		opts:      opts,
		logger:    log.With(opts.Logger, "component", "sim"),
		tel:       opts.Telemetry,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Clock() *clock.Clock           { return s.clock }
func (s *Simulator) Propagator() *ephem.Propagator { return s.prop }
func (s *Simulator) Belt() *ephem.BeltScheduler    { return s.belt }

// SetObserver places the viewpoint used for belt distance gating, in AU.
// It is ignored while Follow is set.
func (s *Simulator) SetObserver(v r3.Vec) { s.observer = v }

// Step ticks the clock with wallNow and then propagates all bodies at the
// new date. Metrics and observers see the finished frame.
func (s *Simulator) Step(wallNow time.Time) *Frame {
	began := time.Now()

	s.clock.Tick(wallNow)
	snap := s.clock.Snapshot()

	positions, err := s.prop.PositionsFor(snap.Date)
	f := &Frame{
		Index:     s.frames,
		Wall:      wallNow,
		Clock:     snap,
		JD:        ephem.JulianDate(snap.Date),
		Positions: positions,
		Err:       err,
	}
	if err != nil {
		for _, id := range s.prop.Registry().IDs() {
			if _, ok := positions[id]; !ok {
				f.Skipped = append(f.Skipped, id)
			}
		}
	}

	if s.opts.Follow != "" {
		if st, ok := positions[s.opts.Follow]; ok {
			s.observer = st.Position
		}
	}
	if s.belt != nil {
		f.BeltUpdated = s.belt.Update(snap.Date, s.observer)
		f.BeltStalest = s.belt.MaxStaleness()
		f.BeltCycle = s.belt.Cycle()
		if s.opts.CopyBelt {
			f.Belt = s.belt.States()
		}
	}

	f.ComputeTime = time.Since(began)
	s.tel.ObserveFrame(f.ComputeTime)
	s.frames++

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Start:   s.clock.Now(),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.KeepFrames {
		result.Frames = make([]*Frame, 0, cfg.Frames)
	}

	var limiter *rate.Limiter
	if cfg.FPS > 0 && !cfg.Synthetic {
		limiter = rate.NewLimiter(rate.Limit(cfg.FPS), 1)
	}
	wall0 := s.opts.Now()
	interval := time.Duration(0)
	if cfg.Synthetic {
		interval = time.Duration(float64(time.Second) / cfg.FPS)
	}

	level.Info(s.logger).Log("msg", "run started", "frames", cfg.Frames, "fps", cfg.FPS, "synthetic", cfg.Synthetic)
	for i := 0; i < cfg.Frames; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return s.finish(result), err
			}
		} else {
			select {
			case <-ctx.Done():
				return s.finish(result), ctx.Err()
			default:
			}
		}

		wall := s.opts.Now()
		if cfg.Synthetic {
			wall = wall0.Add(time.Duration(i) * interval)
		}
		f := s.Step(wall)
		if f.Err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("frame %d: %w", f.Index, f.Err))
		}
		if cfg.KeepFrames {
			result.Frames = append(result.Frames, f)
		}
		result.FramesRun++
	}
	level.Info(s.logger).Log("msg", "run finished", "frames", result.FramesRun, "errors", len(result.Errors))
	return s.finish(result), nil
}

func (s *Simulator) finish(r *Result) *Result {
	r.End = s.clock.Now()
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}

func (s *Simulator) validateConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %f", cfg.FPS)
	}
	if cfg.Synthetic && cfg.FPS == 0 {
		return fmt.Errorf("synthetic runs need a frame rate")
	}
	return nil
}
