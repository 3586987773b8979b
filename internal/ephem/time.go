package ephem

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the reference epoch, JD 2451545.0.
var J2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// JulianDate converts a calendar instant to a Julian Date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t)
}

// Centuries returns Julian centuries elapsed since J2000.0.
func Centuries(t time.Time) float64 {
	return base.J2000Century(JulianDate(t))
}

func daysSinceJ2000(jd float64) float64 {
	return jd - base.J2000
}
