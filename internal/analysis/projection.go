package analysis

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type Plane int

const (
	PlaneXY Plane = iota // ecliptic, seen from the north
	PlaneXZ              // edge-on
)

func (p Plane) project(v r3.Vec) (float64, float64) {
	if p == PlaneXZ {
		return v.X, v.Z
	}
	return v.X, v.Y
}

// OrbitToASCII draws the projected track with the Sun at the origin.
func OrbitToASCII(points []r3.Vec, plane Plane, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Bounds include the origin so the Sun is always on the canvas.
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, p := range points {
		x, y := plane.project(p)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cell := func(x, y float64) (int, int) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col
	}

	for _, p := range points {
		row, col := cell(plane.project(p))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	row, col := cell(0, 0)
	canvas[row][col] = '☉'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(strings.TrimRight(string(r), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
