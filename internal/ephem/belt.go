package ephem

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/orrery/internal/telemetry"
	"gonum.org/v1/gonum/spatial/r3"
)

// gaussK is the Gaussian gravitational constant, rad/day for a = 1 AU.
const gaussK = 0.01720209895

type BeltConfig struct {
	Count          int
	InnerAU        float64
	OuterAU        float64
	MaxEcc         float64 // eccentricity is drawn from [0, MaxEcc)
	MaxInclination float64 // radians
}

func DefaultBeltConfig() BeltConfig {
	return BeltConfig{
		Count:          2000,
		InnerAU:        2.2,
		OuterAU:        3.3,
		MaxEcc:         0.2,
		MaxInclination: 20 * math.Pi / 180,
	}
}

func (c BeltConfig) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("belt count %d must not be negative", c.Count)
	case c.InnerAU <= 0 || c.OuterAU <= c.InnerAU:
		return fmt.Errorf("belt range [%g, %g] AU is empty", c.InnerAU, c.OuterAU)
	case c.MaxEcc < 0 || c.MaxEcc >= 1:
		return fmt.Errorf("belt max eccentricity %g outside [0, 1)", c.MaxEcc)
	case c.MaxInclination < 0 || c.MaxInclination > math.Pi:
		return fmt.Errorf("belt max inclination %g outside [0, pi]", c.MaxInclination)
	}
	return nil
}

type MinorBody struct {
	ID       string
	Elements OrbitalElements
}

// Belt is a population of minor bodies with independently sampled elements.
type Belt struct {
	Bodies []MinorBody
}

// NewBelt samples cfg.Count bodies from rng. The same seed always yields
// the same belt.
func NewBelt(cfg BeltConfig, rng *rand.Rand) (*Belt, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("belt needs a random source")
	}
	b := &Belt{Bodies: make([]MinorBody, cfg.Count)}
	for i := range b.Bodies {
		a := cfg.InnerAU + rng.Float64()*(cfg.OuterAU-cfg.InnerAU)
		e := rng.Float64() * cfg.MaxEcc
		incl := rng.Float64() * cfg.MaxInclination
		node := rng.Float64() * 2 * math.Pi
		argPeri := rng.Float64() * 2 * math.Pi
		anomaly := rng.Float64() * 2 * math.Pi

		w := node + argPeri
		b.Bodies[i] = MinorBody{
			ID: fmt.Sprintf("asteroid-%04d", i),
			Elements: OrbitalElements{
				A: a, E: e, I: incl,
				L:    w + anomaly,
				W:    w,
				Node: node,
				Rates: Rates{
					L: meanMotion(a) * 36525,
				},
			},
		}
	}
	return b, nil
}

// meanMotion returns radians per day from Kepler's third law.
func meanMotion(a float64) float64 {
	return gaussK / math.Pow(a, 1.5)
}

func (b *Belt) Len() int { return len(b.Bodies) }

// BeltScheduler keeps the last known position of every minor body and
// refreshes a bounded subset per frame: bodies near the observer every
// frame, the rest by a round-robin window of Batch bodies. Any body is at
// most Cycle()-1 frames stale.
type BeltScheduler struct {
	belt   *Belt
	solver Solver
	batch  int
	near   float64
	tel    *telemetry.Collectors

	states  []State
	updated []uint64
	cursor  int
	frame   uint64
}

func NewBeltScheduler(b *Belt, batch int, near float64, tel *telemetry.Collectors) (*BeltScheduler, error) {
	if b == nil {
		return nil, fmt.Errorf("belt scheduler needs a belt")
	}
	if batch <= 0 {
		return nil, fmt.Errorf("belt batch size must be positive, got %d", batch)
	}
	return &BeltScheduler{
		belt:    b,
		solver:  MinorSolver,
		batch:   batch,
		near:    near,
		tel:     tel,
		states:  make([]State, b.Len()),
		updated: make([]uint64, b.Len()),
	}, nil
}

// Update advances one frame and returns how many bodies were recomputed.
// The first call computes the whole belt.
func (s *BeltScheduler) Update(t time.Time, observer r3.Vec) int {
	n := len(s.states)
	if n == 0 {
		s.frame++
		return 0
	}
	jd := JulianDate(t)
	s.frame++

	if s.frame == 1 {
		for i := range s.states {
			s.refresh(i, jd)
		}
		s.tel.BeltUpdated(n)
		return n
	}

	count := 0
	if s.near > 0 {
		for i := range s.states {
			if r3.Norm(r3.Sub(s.states[i].Position, observer)) <= s.near {
				s.refresh(i, jd)
				count++
			}
		}
	}

	window := s.batch
	if window > n {
		window = n
	}
	for k := 0; k < window; k++ {
		i := (s.cursor + k) % n
		if s.updated[i] != s.frame {
			s.refresh(i, jd)
			count++
		}
	}
	s.cursor = (s.cursor + window) % n

	s.tel.BeltUpdated(count)
	return count
}

func (s *BeltScheduler) refresh(i int, jd float64) {
	mb := s.belt.Bodies[i]
	st := Propagate(mb.Elements, jd, s.solver)
	st.Body = mb.ID
	s.states[i] = st
	s.updated[i] = s.frame
}

// Cycle is the number of frames the round-robin window needs to visit
// every body once.
func (s *BeltScheduler) Cycle() int {
	n := len(s.states)
	if n == 0 {
		return 0
	}
	w := s.batch
	if w > n {
		w = n
	}
	return (n + w - 1) / w
}

func (s *BeltScheduler) Frame() uint64 { return s.frame }

func (s *BeltScheduler) Len() int { return len(s.states) }

// State returns the last computed state of body i and the frame it was
// computed in.
func (s *BeltScheduler) State(i int) (State, uint64) {
	return s.states[i], s.updated[i]
}

// States returns a copy of every last known state.
func (s *BeltScheduler) States() []State {
	out := make([]State, len(s.states))
	copy(out, s.states)
	return out
}

// MaxStaleness is the age in frames of the oldest position.
func (s *BeltScheduler) MaxStaleness() uint64 {
	var worst uint64
	for _, u := range s.updated {
		if age := s.frame - u; age > worst {
			worst = age
		}
	}
	return worst
}
