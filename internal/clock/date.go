package clock

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// maxJD is the end of year 9999; later dates have no calendar layout to
// round-trip through.
const maxJD = 5373484.5

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 and common calendar layouts (read as UTC),
// "J2000", and Julian Dates written as "JD 2451545.0".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if strings.EqualFold(s, "j2000") {
		return time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC), nil
	}
	if len(s) > 2 && strings.EqualFold(s[:2], "jd") {
		jd, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
		if err != nil || math.IsNaN(jd) || math.IsInf(jd, 0) || jd <= 0 || jd > maxJD {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return julian.JDToTime(jd).UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
