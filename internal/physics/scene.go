package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
)

// Initial pose and velocity shared by the built-in scenes.
const (
	InitialTurn  = 0.1 // coefficient of e12 in the initial rotor exponent
	InitialDrop  = 0.5 // coefficient of e02 and e03 in the initial translator
	InitialSpeed = 0.1 // coefficients of e01 and e12 in the initial velocity
	AnchorOffset = 0.5 // spring anchors sit at (½, …, ½)
)

// InitialMotor is exp(0.1e12)·(1 + ½e02 + ½e03), truncated to the axes
// that exist in d dimensions.
func InitialMotor(alg *ga.Algebra) ga.Multivector {
	return initialMotor(alg, 1)
}

// initialMotor is exp(0.1e12)·(1 + sign·½e02 + sign·½e03).
func initialMotor(alg *ga.Algebra, sign float64) ga.Multivector {
	t := alg.Scalar(1)
	for _, axis := range []int{2, 3} {
		if axis <= alg.D {
			t = t.Add(alg.Blade(ga.Mask(0, axis), sign*InitialDrop))
		}
	}
	r := alg.Blade(ga.Mask(1, 2), InitialTurn).Exp()
	return r.Mul(t)
}

// InitialVelocity is 0.1e01 + 0.1e12.
func InitialVelocity(alg *ga.Algebra) ga.Multivector {
	return alg.Blade(ga.Mask(0, 1), InitialSpeed).Add(alg.Blade(ga.Mask(1, 2), InitialSpeed))
}

// Corner returns the point (v, …, v).
func Corner(alg *ga.Algebra, v float64) ga.Multivector {
	x := make([]float64, alg.D)
	for i := range x {
		x[i] = v
	}
	return alg.Point(x...)
}

// ReferencePair builds the reference run: body 0 at exp(0.1e12)(1 + ½e02 +
// ½e03) hung by corner (½, …, ½), body 1 at exp(0.1e12)(1 − ½e02 − ½e03)
// hung by corner (½, −½, …, −½). Each spring starts at rest, with the world
// anchor equal to the body anchor. The bodies repel each other.
func ReferencePair(p dynamo.Params) (*dynamo.World, error) {
	alg, err := sceneAlgebra(p)
	if err != nil {
		return nil, err
	}

	v := InitialVelocity(alg)
	a1 := Corner(alg, AnchorOffset)
	x := make([]float64, alg.D)
	for i := range x {
		x[i] = -AnchorOffset
	}
	x[0] = AnchorOffset
	a2 := alg.Point(x...)

	bodies := []dynamo.Body{
		dynamo.NewBody(initialMotor(alg, 1), v, dynamo.Spring{BodyAnchor: a1, WorldAnchor: a1}, 1),
		dynamo.NewBody(initialMotor(alg, -1), v, dynamo.Spring{BodyAnchor: a2, WorldAnchor: a2}, 0),
	}
	return dynamo.NewWorld(p, bodies)
}

// PairSymmetry returns the motor S relating the two bodies of MirroredPair:
// M₂ = S·M₁ and W₂ = S W₁ S̃. With at least two axes besides the gravity
// axis, S is the half-turn in the plane of the first and last of them, which
// leaves gravity unchanged. In two dimensions it is a translation by -2
// along the remaining axis.
func PairSymmetry(alg *ga.Algebra, gravityAxis int) ga.Multivector {
	free := freeAxes(alg.D, gravityAxis)
	if len(free) >= 2 {
		return alg.Blade(ga.Mask(free[0], free[len(free)-1]), -1)
	}
	return alg.Scalar(1).Add(alg.Blade(ga.Mask(0, free[0]), 1))
}

// MirroredPair builds two mutually repelling bodies hung from springs, the
// second obtained from the first by PairSymmetry. Unlike ReferencePair the
// two bodies stay related by S for the whole run.
func MirroredPair(p dynamo.Params) (*dynamo.World, error) {
	alg, err := sceneAlgebra(p)
	if err != nil {
		return nil, err
	}

	s := PairSymmetry(alg, p.GravityAxis)
	m1 := InitialMotor(alg)
	v := InitialVelocity(alg)
	anchor := Corner(alg, AnchorOffset)
	w1 := Corner(alg, AnchorOffset)

	bodies := []dynamo.Body{
		dynamo.NewBody(m1, v, dynamo.Spring{BodyAnchor: anchor, WorldAnchor: w1}, 1),
		dynamo.NewBody(s.Mul(m1), v, dynamo.Spring{BodyAnchor: anchor, WorldAnchor: s.Sandwich(w1)}, 0),
	}
	return dynamo.NewWorld(p, bodies)
}

// SingleBody builds one body on a spring with no neighbors.
func SingleBody(p dynamo.Params) (*dynamo.World, error) {
	alg, err := sceneAlgebra(p)
	if err != nil {
		return nil, err
	}
	spring := dynamo.Spring{
		BodyAnchor:  Corner(alg, AnchorOffset),
		WorldAnchor: Corner(alg, AnchorOffset),
	}
	body := dynamo.NewBody(InitialMotor(alg), InitialVelocity(alg), spring)
	return dynamo.NewWorld(p, []dynamo.Body{body})
}

// Ring builds n bodies spaced evenly on a circle in the plane of the first
// two axes besides gravity, each repelled by its two ring neighbors and
// hung from a spring above its start position.
func Ring(p dynamo.Params, n int) (*dynamo.World, error) {
	alg, err := sceneAlgebra(p)
	if err != nil {
		return nil, err
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 bodies, got %d", dynamo.ErrParameterBounds, n)
	}
	free := freeAxes(alg.D, p.GravityAxis)
	if len(free) < 2 {
		return nil, fmt.Errorf("%w: ring needs dim >= 3, got %d", dynamo.ErrParameterBounds, p.Dim)
	}

	radius := 1.5 * float64(n) / math.Pi
	v := InitialVelocity(alg)
	anchor := Corner(alg, AnchorOffset)
	bodies := make([]dynamo.Body, n)
	for i := range bodies {
		phi := 2 * math.Pi * float64(i) / float64(n)
		x := make([]float64, alg.D)
		x[free[0]-1] = radius * math.Cos(phi)
		x[free[1]-1] = radius * math.Sin(phi)

		m := translator(alg, x).Mul(InitialMotor(alg))
		w := alg.Point(x...)
		if c, ok := alg.Coords(m.Sandwich(anchor)); ok {
			c[p.GravityAxis-1] += 1
			w = alg.Point(c...)
		}
		bodies[i] = dynamo.NewBody(m, v, dynamo.Spring{BodyAnchor: anchor, WorldAnchor: w}, (i+n-1)%n, (i+1)%n)
	}
	return dynamo.NewWorld(p, bodies)
}

// translator returns the motor moving the origin to x.
func translator(alg *ga.Algebra, x []float64) ga.Multivector {
	t := alg.Scalar(1)
	for i, v := range x {
		t = t.Add(alg.Blade(ga.Mask(0, i+1), -0.5*v))
	}
	return t
}

func sceneAlgebra(p dynamo.Params) (*ga.Algebra, error) {
	if p.Dim < 2 {
		return nil, fmt.Errorf("%w: scenes need dim >= 2, got %d", dynamo.ErrParameterBounds, p.Dim)
	}
	alg, err := ga.New(p.Dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrParameterBounds, err)
	}
	return alg, nil
}
