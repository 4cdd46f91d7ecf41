package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects d-dimensional world points onto the canvas. Axes past
// the third are folded in by successive perspective divisions, the usual
// way a tesseract is drawn.
type Camera struct {
	Orientation mgl64.Quat
	// Distance is how far the eye sits along +z.
	Distance float64
	// Fold is the eye distance used for each axis beyond the third.
	Fold float64
	Zoom float64
	// Span is the world height that fills the shorter canvas side.
	Span float64
}

func NewCamera() *Camera {
	tilt := mgl64.QuatRotate(0.35, mgl64.Vec3{1, 0, 0})
	turn := mgl64.QuatRotate(-0.5, mgl64.Vec3{0, 1, 0})
	return &Camera{
		Orientation: tilt.Mul(turn).Normalize(),
		Distance:    14,
		Fold:        4,
		Zoom:        1,
		Span:        8,
	}
}

// Rotate turns the view by angle radians about a camera-space axis.
func (c *Camera) Rotate(axis mgl64.Vec3, angle float64) {
	c.Orientation = mgl64.QuatRotate(angle, axis).Mul(c.Orientation).Normalize()
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Lift maps a point of any dimension into 3D.
func (c *Camera) Lift(p []float64) mgl64.Vec3 {
	q := append([]float64(nil), p...)
	for k := len(q) - 1; k >= 3; k-- {
		den := math.Max(c.Fold-q[k], 0.1*c.Fold)
		s := c.Fold / den
		for j := 0; j < k; j++ {
			q[j] *= s
		}
	}

	var v mgl64.Vec3
	copy(v[:], q)
	return v
}

// Project returns the canvas dot for p on a sw×sh dot canvas. ok is false
// when the point is behind the eye.
func (c *Camera) Project(p []float64, sw, sh int) (x, y int, ok bool) {
	r := c.Orientation.Rotate(c.Lift(p)).Mul(c.Zoom)
	if r.Z() >= c.Distance-0.1 {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - r.Z())
	unit := float64(min(sw, sh)) / c.Span

	x = int(math.Round(r.X()*persp*unit)) + sw/2
	y = int(math.Round(-r.Y()*persp*unit)) + sh/2
	return x, y, true
}
