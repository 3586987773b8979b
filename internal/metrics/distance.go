package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/sim"
)

type Extreme int

const (
	Min Extreme = iota
	Max
)

func (e Extreme) String() string {
	if e == Max {
		return "max"
	}
	return "min"
}

// Distance tracks the extreme heliocentric distance of one body.
type Distance struct {
	name    string
	body    string
	mode    Extreme
	value   float64
	samples int
}

func NewDistance(body string, mode Extreme) *Distance {
	body = ephem.NormalizeID(body)
	return &Distance{
		name: "distance_" + mode.String() + "_" + body,
		body: body,
		mode: mode,
	}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(f *sim.Frame) {
	st, ok := f.Positions[d.body]
	if !ok {
		return
	}
	if d.samples == 0 {
		d.value = st.R
	} else if d.mode == Min {
		d.value = math.Min(d.value, st.R)
	} else {
		d.value = math.Max(d.value, st.R)
	}
	d.samples++
}

func (d *Distance) Value() float64 {
	if d.samples == 0 {
		return math.NaN()
	}
	return d.value
}

func (d *Distance) Reset() {
	d.value = 0
	d.samples = 0
}

// Separation is the closest approach between two bodies, in AU.
type Separation struct {
	name    string
	a, b    string
	closest float64
}

func NewSeparation(a, b string) *Separation {
	a, b = ephem.NormalizeID(a), ephem.NormalizeID(b)
	return &Separation{
		name:    "closest_" + a + "_" + b,
		a:       a,
		b:       b,
		closest: math.Inf(1),
	}
}

func (s *Separation) Name() string { return s.name }

func (s *Separation) Observe(f *sim.Frame) {
	pa, okA := f.Positions[s.a]
	pb, okB := f.Positions[s.b]
	if !okA || !okB {
		return
	}
	s.closest = math.Min(s.closest, r3.Norm(r3.Sub(pa.Position, pb.Position)))
}

func (s *Separation) Value() float64 { return s.closest }

func (s *Separation) Reset() { s.closest = math.Inf(1) }
