package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Track is one body's path in heliocentric AU.
type Track struct {
	Name   string
	Points []r3.Vec
	Color  string
}

var palette = []string{"#8fbcbb", "#ebcb8b", "#88c0d0", "#d08770", "#a3be8c", "#b48ead", "#5e81ac", "#bf616a"}

// SortTracks orders tracks by mean distance so inner orbits draw first
// and take the first palette colours.
func SortTracks(tracks []Track) {
	mean := func(t Track) float64 {
		if len(t.Points) == 0 {
			return 0
		}
		sum := 0.0
		for _, p := range t.Points {
			sum += r3.Norm(p)
		}
		return sum / float64(len(t.Points))
	}
	sort.SliceStable(tracks, func(i, j int) bool { return mean(tracks[i]) < mean(tracks[j]) })
}

// OrbitsToSVG draws the tracks projected on the ecliptic with the Sun at
// the centre. Both axes share one scale so orbits keep their shape.
func OrbitsToSVG(w io.Writer, tracks []Track, size int) error {
	if size <= 0 {
		return fmt.Errorf("svg size must be positive, got %d", size)
	}
	extent := 0.0
	for _, t := range tracks {
		for _, p := range t.Points {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	if extent == 0 {
		extent = 1
	}
	half := float64(size) / 2
	k := half / (extent * 1.1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ffcc00"/>
`, size, size, size, size, half, half)

	for i, t := range tracks {
		if len(t.Points) == 0 {
			continue
		}
		color := t.Color
		if color == "" {
			color = palette[i%len(palette)]
		}
		fmt.Fprintf(&sb, `<g id="%s">`+"\n", t.Name)
		if len(t.Points) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.2" d="M`, color)
			for j, p := range t.Points {
				if j > 0 {
					sb.WriteString(" L")
				}
				fmt.Fprintf(&sb, "%.1f,%.1f", half+p.X*k, half-p.Y*k)
			}
			sb.WriteString(`"/>` + "\n")
		}
		last := t.Points[len(t.Points)-1]
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>`+"\n", half+last.X*k, half-last.Y*k, color)
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
