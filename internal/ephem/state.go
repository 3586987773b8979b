package ephem

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is a propagated position. It is a value: once returned it is never
// mutated, and cache hits hand back an identical copy.
type State struct {
	Body     string
	Parent   string // set for moons only
	Position r3.Vec // AU, heliocentric ecliptic J2000
	Offset   r3.Vec // AU, relative to Parent; zero for planets

	R                float64 // distance from the Sun, AU
	TrueAnomaly      float64 // radians; ecliptic longitude about the parent for moons
	EccentricAnomaly float64
	SpeedProxy       float64 // 1/sqrt(R)

	JD         float64
	Iterations int
	Converged  bool
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Position.X, s.Position.Y, s.Position.Z, s.R, s.TrueAnomaly, s.SpeedProxy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Positions maps body identifiers to their state for one instant.
type Positions map[string]State

// Propagate computes the position of a body with the given elements at
// Julian Date jd.
func Propagate(el OrbitalElements, jd float64, solver Solver) State {
	cur := el.At(base.J2000Century(jd))
	e := cur.E

	ecc, iters, ok := solver.Solve(cur.MeanAnomaly(), e)

	sinHalf, cosHalf := math.Sincos(ecc / 2)
	v := 2 * math.Atan2(math.Sqrt(1+e)*sinHalf, math.Sqrt(1-e)*cosHalf)
	r := cur.A * (1 - e*math.Cos(ecc))

	sinV, cosV := math.Sincos(v)
	pos := toEcliptic(r*cosV, r*sinV, cur.Node, cur.I, cur.ArgPerihelion())

	return State{
		Position:         pos,
		R:                r,
		TrueAnomaly:      v,
		EccentricAnomaly: ecc,
		SpeedProxy:       1 / math.Sqrt(r),
		JD:               jd,
		Iterations:       iters,
		Converged:        ok,
	}
}

// toEcliptic rotates an orbital-plane position by the 3-1-3 sequence
// (node, inclination, argument of perihelion).
func toEcliptic(xo, yo, node, incl, argPeri float64) r3.Vec {
	sO, cO := math.Sincos(node)
	sI, cI := math.Sincos(incl)
	sW, cW := math.Sincos(argPeri)

	return r3.Vec{
		X: (cW*cO-sW*sO*cI)*xo + (-sW*cO-cW*sO*cI)*yo,
		Y: (cW*sO+sW*cO*cI)*xo + (-sW*sO+cW*cO*cI)*yo,
		Z: (sW*sI)*xo + (cW*sI)*yo,
	}
}
