package ephem

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/orrery/internal/telemetry"
	"gonum.org/v1/gonum/spatial/r3"
)

type Options struct {
	CacheTimeout  time.Duration
	CacheCapacity int

	// SceneScale converts AU to renderer units.
	SceneScale float64
	// MoonScale exaggerates moon offsets so they clear the parent mesh.
	MoonScale float64

	Solver Solver

	// Now is the wall clock used for cache expiry.
	Now       func() time.Time
	Logger    log.Logger
	Telemetry *telemetry.Collectors
}

func DefaultOptions() Options {
	return Options{
		CacheTimeout:  time.Second,
		CacheCapacity: 512,
		SceneScale:    1,
		MoonScale:     1,
		Solver:        PlanetSolver,
		Now:           time.Now,
		Logger:        log.NewNopLogger(),
	}
}

// Propagator answers position queries for the bodies of one registry.
type Propagator struct {
	reg    *Registry
	opts   Options
	cache  *Cache
	logger log.Logger
	tel    *telemetry.Collectors
}

func New(reg *Registry, opts Options) (*Propagator, error) {
	if reg == nil {
		return nil, errors.New("ephem: nil registry")
	}
	def := DefaultOptions()
	if opts.CacheTimeout <= 0 {
		opts.CacheTimeout = def.CacheTimeout
	}
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = def.CacheCapacity
	}
	if opts.SceneScale == 0 {
		opts.SceneScale = def.SceneScale
	}
	if opts.MoonScale == 0 {
		opts.MoonScale = def.MoonScale
	}
	if opts.Solver.MaxIter <= 0 {
		opts.Solver = def.Solver
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	p := &Propagator{
		reg:    reg,
		opts:   opts,
		logger: log.With(opts.Logger, "component", "ephem"),
		tel:    opts.Telemetry,
	}
	cache, err := NewCache(opts.CacheCapacity, opts.CacheTimeout, opts.Now, p.tel.CacheEvicted)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return p, nil
}

func (p *Propagator) Registry() *Registry { return p.reg }

func (p *Propagator) CacheLen() int { return p.cache.Len() }

// ToScene converts a heliocentric AU vector to renderer units.
func (p *Propagator) ToScene(v r3.Vec) r3.Vec {
	return r3.Scale(p.opts.SceneScale, v)
}

// PositionFor returns the state of one body at t. Unknown identifiers
// yield an error wrapping ErrUnknownBody; callers skip the body for the
// frame.
func (p *Propagator) PositionFor(id string, t time.Time) (State, error) {
	id = NormalizeID(id)
	body, ok := p.reg.Lookup(id)
	if !ok {
		p.tel.UnknownBody()
		level.Debug(p.logger).Log("msg", "no orbital data", "body", id)
		return State{}, &BodyError{Body: id, Err: ErrUnknownBody}
	}

	key := cacheKey{body: id, bucket: p.cache.Bucket(t)}
	if st, ok := p.cache.get(key); ok {
		p.tel.CacheHit()
		return st, nil
	}
	p.tel.CacheMiss()

	st, err := p.compute(body, t)
	if err != nil {
		return State{}, err
	}
	p.cache.put(key, st)
	return st, nil
}

func (p *Propagator) compute(body Body, t time.Time) (State, error) {
	jd := JulianDate(t)

	var st State
	switch body.Kind {
	case KindPlanet:
		st = Propagate(body.Elements, jd, p.opts.Solver)
		if !st.Converged {
			p.tel.NotConverged("planet")
			level.Debug(p.logger).Log("msg", "kepler budget exhausted", "body", body.ID, "iterations", st.Iterations)
		}
	case KindMoon:
		parent, err := p.PositionFor(body.Moon.Parent, t)
		if err != nil {
			return State{}, &BodyError{Body: body.ID, Err: fmt.Errorf("%w: %v", ErrParentMissing, err)}
		}
		offset, lon := body.Moon.Offset(jd)
		offset = r3.Scale(p.opts.MoonScale, offset)
		pos := r3.Add(parent.Position, offset)
		r := r3.Norm(pos)
		st = State{
			Parent:      body.Moon.Parent,
			Position:    pos,
			Offset:      offset,
			R:           r,
			TrueAnomaly: lon,
			SpeedProxy:  1 / math.Sqrt(r),
			JD:          jd,
			Converged:   true,
		}
	default:
		return State{}, &BodyError{Body: body.ID, Err: ErrUnknownBody}
	}

	st.Body = body.ID
	if !st.IsValid() {
		return State{}, &BodyError{Body: body.ID, Err: ErrInvalidState}
	}
	return st, nil
}

// PositionsFor propagates every registered body at t. A failing body is
// left out of the map and its error joined into the returned error; the
// rest of the batch is unaffected.
func (p *Propagator) PositionsFor(t time.Time) (Positions, error) {
	ids := p.reg.IDs()
	out := make(Positions, len(ids))
	var errs []error
	for _, id := range ids {
		st, err := p.safePositionFor(id, t)
		if err != nil {
			p.tel.BodyFailed()
			level.Warn(p.logger).Log("msg", "body skipped", "body", id, "err", err)
			errs = append(errs, err)
			continue
		}
		out[id] = st
	}
	return out, errors.Join(errs...)
}

func (p *Propagator) safePositionFor(id string, t time.Time) (st State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &BodyError{Body: id, Err: fmt.Errorf("panic during propagation: %v", r)}
		}
	}()
	return p.PositionFor(id, t)
}
