package analysis

import "gonum.org/v1/gonum/spatial/r3"

type ApsisKind int

const (
	Perihelion ApsisKind = iota
	Aphelion
)

func (k ApsisKind) String() string {
	if k == Aphelion {
		return "aphelion"
	}
	return "perihelion"
}

// Apsis is one closest or farthest passage, refined between samples.
type Apsis struct {
	Kind  ApsisKind
	Index int
	JD    float64
	R     float64
}

// FindApsides scans a distance series for local extrema. jd and r must be
// the same length and jd evenly spaced.
func FindApsides(jd, r []float64) []Apsis {
	if len(jd) != len(r) || len(r) < 3 {
		return nil
	}
	var out []Apsis
	for i := 1; i < len(r)-1; i++ {
		var kind ApsisKind
		switch {
		case r[i] < r[i-1] && r[i] <= r[i+1]:
			kind = Perihelion
		case r[i] > r[i-1] && r[i] >= r[i+1]:
			kind = Aphelion
		default:
			continue
		}

		offset, value := 0.0, r[i]
		if den := r[i-1] - 2*r[i] + r[i+1]; den != 0 {
			offset = 0.5 * (r[i-1] - r[i+1]) / den
			value = r[i] - 0.25*(r[i-1]-r[i+1])*offset
		}
		step := jd[i+1] - jd[i]
		out = append(out, Apsis{Kind: kind, Index: i, JD: jd[i] + offset*step, R: value})
	}
	return out
}

// NodeCrossings returns the interpolated Julian Dates at which the body
// passes from south to north of the ecliptic.
func NodeCrossings(jd []float64, pos []r3.Vec) []float64 {
	if len(jd) != len(pos) {
		return nil
	}
	var out []float64
	for i := 1; i < len(pos); i++ {
		prev, curr := pos[i-1].Z, pos[i].Z
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			out = append(out, jd[i-1]+frac*(jd[i]-jd[i-1]))
		}
	}
	return out
}
