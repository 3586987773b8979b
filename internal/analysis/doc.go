// Package analysis extracts orbital quantities from recorded series.
//
// The tools work on plain slices so they apply equally to a live run and to
// a run loaded from storage:
//
//   - [EstimatePeriod]: dominant period of a sampled signal via FFT
//   - [FindApsides]: perihelion and aphelion passages from a distance series
//   - [NodeCrossings]: ascending node passages from ecliptic latitude sign changes
//   - [OrbitToASCII]: a projected orbit drawn on a character grid
//
// # Period Estimation
//
// The heliocentric distance of a planet oscillates once per anomalistic
// period, so its spectrum has a single dominant peak:
//
//	ser, _ := store.LoadSeries(runID, "mars")
//	days, err := analysis.EstimatePeriod(ser.R, stepDays)
//
// The peak is located on a Hann-windowed spectrum and refined by parabolic
// interpolation, which keeps the bias well under a bin. Series shorter than
// two full periods give poor estimates.
package analysis
