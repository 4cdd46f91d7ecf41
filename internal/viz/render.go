package viz

import (
	"github.com/san-kum/forque/internal/sim"
)

// Layers selects what Render draws.
type Layers struct {
	Edges   bool
	Glyphs  bool
	Springs bool
	Plane   bool
}

func AllLayers() Layers {
	return Layers{Edges: true, Glyphs: true, Springs: true, Plane: true}
}

// Render draws one frame: the reference plane, then per body its wireframe,
// velocity glyphs, spring and center.
func Render(c *Canvas, f sim.Frame, cam *Camera, layers Layers) {
	if c == nil || cam == nil {
		return
	}
	w, h := c.Dots()

	segment := func(a, b sim.Point) {
		x0, y0, ok0 := cam.Project(a, w, h)
		x1, y1, ok1 := cam.Project(b, w, h)
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	if layers.Plane {
		corners := f.Plane.Corners
		switch {
		case len(corners) == 2:
			segment(corners[0], corners[1])
		case len(corners) > 2:
			for i := range corners {
				segment(corners[i], corners[(i+1)%len(corners)])
			}
		}
	}

	radius := int(f.Display.PointRadius / 2)
	for _, b := range f.Bodies {
		if layers.Edges {
			for _, e := range b.Edges {
				segment(b.Vertices[e[0]], b.Vertices[e[1]])
			}
		}
		if layers.Glyphs {
			for _, g := range b.Glyphs {
				segment(g[0], g[1])
			}
		}
		if layers.Springs {
			segment(b.Spring[0], b.Spring[1])
		}
		if x, y, ok := cam.Project(b.Center, w, h); ok {
			c.Dot(x, y, radius)
		}
	}
}
