package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects ecliptic AU coordinates onto canvas dots. With zero tilt
// it looks down on the ecliptic from the north.
type Camera struct {
	Center r3.Vec
	// Zoom is dots per AU.
	Zoom float64
	Tilt float64 // radians about the x axis
}

func NewCamera(zoom float64) *Camera {
	return &Camera{Zoom: zoom}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(1e5, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.5, c.Zoom/1.25) }

func (c *Camera) TiltBy(a float64) {
	c.Tilt = math.Max(0, math.Min(math.Pi/2, c.Tilt+a))
}

// Project returns dot coordinates for p on a sw x sh dot canvas and
// whether they fall inside it.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, bool) {
	v := r3.Sub(p, c.Center)
	if c.Tilt != 0 {
		v = r3.NewRotation(-c.Tilt, r3.Vec{X: 1}).Rotate(v)
	}
	x := int(math.Round(v.X*c.Zoom)) + sw/2
	y := int(math.Round(-v.Y*c.Zoom)) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

// FitZoom picks the zoom that fits radius AU into the smaller canvas side.
func FitZoom(radius float64, sw, sh int) float64 {
	side := sw
	if sh < side {
		side = sh
	}
	if radius <= 0 {
		return 1
	}
	return float64(side) / (2.2 * radius)
}
