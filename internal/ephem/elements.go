package ephem

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// OrbitalElements holds Keplerian elements referred to the J2000.0 ecliptic.
// Angles are radians, A is in AU.
type OrbitalElements struct {
	A    float64 // semi-major axis
	E    float64 // eccentricity
	I    float64 // inclination
	L    float64 // mean longitude
	W    float64 // longitude of perihelion
	Node float64 // longitude of ascending node

	// Rates are per Julian century since J2000.0.
	Rates Rates
}

// Rates are the secular drift terms of OrbitalElements.
type Rates struct {
	A, E, I, L, W, Node float64
}

// At applies secular drift for T Julian centuries since J2000.0.
// Extrapolation outside the fitted interval is not clamped.
func (el OrbitalElements) At(T float64) OrbitalElements {
	return OrbitalElements{
		A:     el.A + el.Rates.A*T,
		E:     el.E + el.Rates.E*T,
		I:     el.I + el.Rates.I*T,
		L:     el.L + el.Rates.L*T,
		W:     el.W + el.Rates.W*T,
		Node:  el.Node + el.Rates.Node*T,
		Rates: el.Rates,
	}
}

// ArgPerihelion returns w - Node.
func (el OrbitalElements) ArgPerihelion() float64 {
	return el.W - el.Node
}

// MeanAnomaly returns L - w.
func (el OrbitalElements) MeanAnomaly() float64 {
	return el.L - el.W
}

func (el OrbitalElements) Validate() error {
	for _, v := range []float64{el.A, el.E, el.I, el.L, el.W, el.Node,
		el.Rates.A, el.Rates.E, el.Rates.I, el.Rates.L, el.Rates.W, el.Rates.Node} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidElements)
		}
	}
	if el.A <= 0 {
		return fmt.Errorf("%w: semi-major axis %g must be positive", ErrInvalidElements, el.A)
	}
	if el.E < 0 || el.E >= 1 {
		return fmt.Errorf("%w: eccentricity %g outside [0, 1)", ErrInvalidElements, el.E)
	}
	return nil
}

// FromDegrees builds elements from a table row in AU and degrees, the layout
// used by the JPL approximate-positions tables.
func FromDegrees(a, e, i, l, w, node float64, da, de, di, dl, dw, dnode float64) OrbitalElements {
	return OrbitalElements{
		A:    a,
		E:    e,
		I:    unit.AngleFromDeg(i).Rad(),
		L:    unit.AngleFromDeg(l).Rad(),
		W:    unit.AngleFromDeg(w).Rad(),
		Node: unit.AngleFromDeg(node).Rad(),
		Rates: Rates{
			A:    da,
			E:    de,
			I:    unit.AngleFromDeg(di).Rad(),
			L:    unit.AngleFromDeg(dl).Rad(),
			W:    unit.AngleFromDeg(dw).Rad(),
			Node: unit.AngleFromDeg(dnode).Rad(),
		},
	}
}
