package ephem

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// MoonTheory places a moon relative to its parent with a single-term
// lunar theory: mean longitude plus one equation-of-center term, one
// latitude term, and a fixed distance. Angles are radians, rates are
// radians per day since J2000.0.
type MoonTheory struct {
	Parent   string
	Distance float64 // AU

	L0, LRate float64 // mean longitude
	M0, MRate float64 // mean anomaly
	F0, FRate float64 // argument of latitude

	EqCenter float64 // longitude amplitude
	Latitude float64 // latitude amplitude
}

// Offset returns the parent-relative ecliptic position at jd.
func (m MoonTheory) Offset(jd float64) (offset r3.Vec, longitude float64) {
	d := daysSinceJ2000(jd)
	meanLon := m.L0 + m.LRate*d
	anomaly := m.M0 + m.MRate*d
	argLat := m.F0 + m.FRate*d

	lon := meanLon + m.EqCenter*math.Sin(anomaly)
	lat := m.Latitude * math.Sin(argLat)

	sLon, cLon := math.Sincos(lon)
	sLat, cLat := math.Sincos(lat)
	return r3.Vec{
		X: m.Distance * cLat * cLon,
		Y: m.Distance * cLat * sLon,
		Z: m.Distance * sLat,
	}, normalizeAngle(lon)
}

const kmPerAU = 1.495978707e8

// circularMoon approximates a regular satellite from its orbital radius,
// sidereal period, phase at epoch, eccentricity and inclination. The
// equation of center is taken to first order, 2e.
func circularMoon(parent string, radiusKm, periodDays, phaseDeg, ecc, inclDeg float64) MoonTheory {
	rate := 2 * math.Pi / periodDays
	phase := unit.AngleFromDeg(phaseDeg).Rad()
	return MoonTheory{
		Parent:   parent,
		Distance: radiusKm / kmPerAU,
		L0:       phase,
		LRate:    rate,
		M0:       phase,
		MRate:    rate,
		F0:       phase,
		FRate:    rate,
		EqCenter: 2 * ecc,
		Latitude: unit.AngleFromDeg(inclDeg).Rad(),
	}
}

// earthMoon is the classic low-precision lunar model with the distance
// fixed at the mean value.
func earthMoon() MoonTheory {
	deg := func(d float64) float64 { return unit.AngleFromDeg(d).Rad() }
	return MoonTheory{
		Parent:   "earth",
		Distance: 384400 / kmPerAU,
		L0:       deg(218.316),
		LRate:    deg(13.176396),
		M0:       deg(134.963),
		MRate:    deg(13.064993),
		F0:       deg(93.272),
		FRate:    deg(13.229350),
		EqCenter: deg(6.289),
		Latitude: deg(5.128),
	}
}
