package ephem

import "math"

// Solver solves Kepler's equation E = M + e sin E by fixed-point iteration
// seeded at E0 = M. The iteration is a contraction with ratio e, so the
// residual after stopping is below e*Tol.
type Solver struct {
	MaxIter int
	Tol     float64 // radians
}

var (
	// PlanetSolver converges to 1e-8 rad for every e <= 0.9 within budget.
	PlanetSolver = Solver{MaxIter: 200, Tol: 1e-8}

	// MinorSolver trades precision for throughput on belt populations.
	// With e < 0.2 three iterations leave |E - E*| <= e^4 < 0.0016 rad, so
	// running out of budget is the expected outcome, not a failure.
	MinorSolver = Solver{MaxIter: 3, Tol: 1e-8}
)

// Solve returns the eccentric anomaly for mean anomaly m. When the budget
// runs out before the tolerance is met the last iterate is returned with
// converged set to false.
func (s Solver) Solve(m, e float64) (ecc float64, iterations int, converged bool) {
	m = normalizeAngle(m)
	ecc = m
	for iterations < s.MaxIter {
		next := m + e*math.Sin(ecc)
		delta := next - ecc
		ecc = next
		iterations++
		if math.Abs(delta) < s.Tol {
			return ecc, iterations, true
		}
	}
	return ecc, iterations, false
}

// normalizeAngle wraps into (-pi, pi].
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
