// Package ephem computes positions of solar-system bodies from Keplerian
// orbital elements.
//
// The package is organised around a small number of types:
//
//   - [OrbitalElements]: base elements at J2000.0 plus secular rates
//   - [Solver]: bounded fixed-point solver for Kepler's equation
//   - [Propagator]: position queries with a coarse time-bucket cache
//   - [MoonTheory]: single-term lunar-theory offsets relative to a parent
//   - [Belt] and [BeltScheduler]: sampled minor bodies with LOD updates
//
// # Example
//
//	reg := ephem.DefaultRegistry()
//	prop, _ := ephem.New(reg, ephem.DefaultOptions())
//	st, err := prop.PositionFor("earth", time.Now())
//	if errors.Is(err, ephem.ErrUnknownBody) {
//	    // skip this body for the frame
//	}
//
// # Precision
//
// Planets are solved to 1e-8 rad in eccentric anomaly. Minor bodies use a
// fixed three-iteration budget; for e < 0.2 the error in E is bounded by
// e^4 (under 0.0016 rad). Cached positions are reused for every date that
// falls in the same bucket, so positions are not recomputed at sub-bucket
// granularity.
//
// # Thread Safety
//
// A Propagator is meant to be driven from a single frame loop. The cache is
// guarded by a mutex so concurrent readers do not corrupt it, but batch
// results are only consistent when the clock is advanced before the query.
package ephem
