package physics

import (
	"math/bits"

	"github.com/san-kum/forque/internal/ga"
)

// Mesh is the static wireframe of a unit hypercube centered on the body
// origin. It is built once per dimension and never mutated.
type Mesh struct {
	Vertices []ga.Multivector
	Edges    [][2]int
}

// Hypercube returns the 2^d vertices and d·2^(d-1) edges of the unit
// d-cube. Coordinate k of vertex i is bit d-1-k of i, minus ½. Edges join
// vertices that differ in exactly one bit and are listed as (i, j) with
// j < i.
func Hypercube(alg *ga.Algebra) Mesh {
	d := alg.D
	n := 1 << d
	m := Mesh{Vertices: make([]ga.Multivector, n)}

	x := make([]float64, d)
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			x[k] = float64((i>>(d-1-k))&1) - 0.5
		}
		m.Vertices[i] = alg.Point(x...)

		for j := 0; j < i; j++ {
			if bits.OnesCount(uint(i^j)) == 1 {
				m.Edges = append(m.Edges, [2]int{i, j})
			}
		}
	}
	return m
}

// Glyph returns the tip of the velocity marker drawn from body-frame vertex
// x: x advanced by scale times its body-frame velocity -B×x.
func Glyph(x, velocity ga.Multivector, scale float64) ga.Multivector {
	return x.AddScaled(-scale, velocity.Commutator(x))
}

// Plane is the static reference plane. It takes no part in the dynamics.
type Plane struct {
	Axis    int
	Element ga.Multivector
	// Corners outline a finite patch of the plane for drawing: four corners
	// in d ≥ 3, a segment in d = 2.
	Corners [][]float64
}

// ReferencePlane returns the plane e_axis + offset·e0, i.e. x_axis = -offset,
// with a drawable patch of the given half width.
func ReferencePlane(alg *ga.Algebra, axis int, offset, half float64) Plane {
	p := Plane{
		Axis:    axis,
		Element: alg.Blade(ga.Mask(axis), 1).Add(alg.Blade(ga.Mask(0), offset)),
	}

	free := freeAxes(alg.D, axis)
	corner := func(su, sv float64) []float64 {
		c := make([]float64, alg.D)
		c[axis-1] = -offset
		if len(free) > 0 {
			c[free[0]-1] = su * half
		}
		if len(free) > 1 {
			c[free[1]-1] = sv * half
		}
		return c
	}

	if len(free) > 1 {
		p.Corners = [][]float64{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
	} else {
		p.Corners = [][]float64{corner(-1, 0), corner(1, 0)}
	}
	return p
}

// Distance is the signed distance of Euclidean point x from the plane,
// positive on the side the normal points to.
func (p Plane) Distance(x []float64) float64 {
	d := p.Element.Coeff(ga.Mask(0))
	for i, v := range x {
		d += p.Element.Coeff(ga.Mask(i+1)) * v
	}
	return d
}

// freeAxes lists the 1-based axes other than skip, ascending.
func freeAxes(d, skip int) []int {
	out := make([]int, 0, d)
	for a := 1; a <= d; a++ {
		if a != skip {
			out = append(out, a)
		}
	}
	return out
}
