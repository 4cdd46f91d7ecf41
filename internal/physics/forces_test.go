package physics

import (
	"math"
	"testing"

	"github.com/san-kum/forque/internal/dynamo"
	"github.com/san-kum/forque/internal/ga"
)

func referenceParams(d int) dynamo.Params {
	return dynamo.Params{
		Dim:         d,
		Gravity:     -9.81,
		GravityAxis: 2,
		K:           16,
		RepK:        100,
		Dt:          1.0 / 600,
		Substeps:    10,
	}
}

func worldAt(t *testing.T, p dynamo.Params, bodies ...dynamo.Body) *dynamo.World {
	t.Helper()
	w, err := dynamo.NewWorld(p, bodies)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func restingBody(alg *ga.Algebra, anchor, world ga.Multivector, nbrs ...int) dynamo.Body {
	return dynamo.NewBody(alg.Scalar(1), alg.Zero(), dynamo.Spring{BodyAnchor: anchor, WorldAnchor: world}, nbrs...)
}

func TestGravity(t *testing.T) {
	alg := ga.MustNew(3)
	p := referenceParams(3)
	w := worldAt(t, p, restingBody(alg, alg.Origin(), alg.Origin()))
	m := NewModel(w)

	tests := []struct {
		name  string
		motor ga.Multivector
		blade int
		want  float64
	}{
		{"identity", alg.Scalar(1), ga.Mask(0, 2), -9.81},
		// Body e1 points along world e2, so gravity is along body -e1.
		{"quarter turn", alg.Blade(ga.Mask(1, 2), -math.Pi/4).Exp(), ga.Mask(0, 1), -9.81},
		{"translated", alg.Scalar(1).Add(alg.Blade(ga.Mask(0, 3), 0.7)), ga.Mask(0, 2), -9.81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := m.Gravity(tt.motor).UnDual()
			if got := acc.Coeff(tt.blade); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("acceleration %s, want %v on %s", acc, tt.want, alg.BladeName(tt.blade))
			}
			if math.Abs(acc.Norm()) > 1e-12 {
				t.Errorf("gravity produced a torque: %s", acc)
			}
		})
	}
}

func TestHooke(t *testing.T) {
	alg := ga.MustNew(3)
	p := referenceParams(3)
	p.K = 2
	w := worldAt(t, p, restingBody(alg, alg.Origin(), alg.Origin()))
	m := NewModel(w)

	t.Run("pulls toward anchor", func(t *testing.T) {
		s := dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Point(1, 2, 0)}
		acc := m.Hooke(alg.Scalar(1), s).UnDual()
		if math.Abs(acc.Coeff(ga.Mask(0, 1))-2) > 1e-12 || math.Abs(acc.Coeff(ga.Mask(0, 2))-4) > 1e-12 {
			t.Errorf("acceleration %s, want 2e01 + 4e02", acc)
		}
		if e := m.SpringEnergy(alg.Scalar(1), s); math.Abs(e-10) > 1e-12 {
			t.Errorf("spring energy %v, want 10", e)
		}
	})

	t.Run("off-center anchor twists", func(t *testing.T) {
		s := dynamo.Spring{BodyAnchor: alg.Point(1, 0, 0), WorldAnchor: alg.Point(1, 1, 0)}
		acc := m.Hooke(alg.Scalar(1), s).UnDual()
		if math.Abs(acc.Coeff(ga.Mask(0, 2))-2) > 1e-12 {
			t.Errorf("linear part %s, want 2e02", acc)
		}
		if math.Abs(acc.Coeff(ga.Mask(1, 2))-2) > 1e-12 {
			t.Errorf("angular part %s, want 2e12", acc)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		off := *m
		off.K = 0
		s := dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Point(1, 0, 0)}
		if n := off.Hooke(alg.Scalar(1), s).Norm(); n != 0 {
			t.Errorf("expected no spring force, got norm %v", n)
		}
		if e := off.SpringEnergy(alg.Scalar(1), s); e != 0 {
			t.Errorf("expected no spring energy, got %v", e)
		}
	})
}

func TestRepulsionPair(t *testing.T) {
	alg := ga.MustNew(3)
	p := referenceParams(3)
	shift := alg.Scalar(1).Add(alg.Blade(ga.Mask(0, 1), -1)) // moves the origin to (2, 0, 0)

	w := worldAt(t, p,
		restingBody(alg, alg.Origin(), alg.Origin(), 1),
		dynamo.NewBody(shift, alg.Zero(), dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Origin()}, 0),
	)
	m := NewModel(w)

	acc := m.RepulsionPair(w.Bodies[0].Motor, w.Bodies[1].Motor).UnDual()
	if got, want := acc.Coeff(ga.Mask(0, 1)), -p.RepK/4; math.Abs(got-want) > 1e-12 {
		t.Errorf("acceleration along e1 = %v, want %v", got, want)
	}
	if acc.Norm() > 1e-12 {
		t.Errorf("repulsion at the center produced a torque: %s", acc)
	}

	if got, want := m.RepulsionEnergy(w, 0), p.RepK/2; math.Abs(got-want) > 1e-12 {
		t.Errorf("repulsion energy %v, want %v", got, want)
	}
	if got := Separation(w, 0, 1); math.Abs(got-2) > 1e-12 {
		t.Errorf("separation %v, want 2", got)
	}
}

func TestRepulsion_Reciprocity(t *testing.T) {
	for _, d := range []int{2, 3, 4} {
		alg := ga.MustNew(d)
		p := referenceParams(d)
		m1 := InitialMotor(alg)
		m2 := PairSymmetry(alg, 2).Mul(alg.Blade(ga.Mask(1, 2), 0.4).Exp()).Mul(m1)

		w := worldAt(t, p,
			dynamo.NewBody(m1, alg.Zero(), dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Origin()}, 1),
			dynamo.NewBody(m2, alg.Zero(), dynamo.Spring{BodyAnchor: alg.Origin(), WorldAnchor: alg.Origin()}, 0),
		)
		model := NewModel(w)
		a, b := w.Bodies[0].Motor, w.Bodies[1].Motor

		onA := a.Sandwich(model.RepulsionPair(a, b))
		onB := b.Sandwich(model.RepulsionPair(b, a))
		if dist := onA.Add(onB).Norm() + onA.Add(onB).UnDual().Norm(); dist > 1e-9 {
			t.Errorf("d=%d: world-frame forces not opposite: %s vs %s", d, onA, onB)
		}

		e0, e1 := model.RepulsionEnergy(w, 0), model.RepulsionEnergy(w, 1)
		if e0 <= 0 || math.Abs(e0-e1) > 1e-9*e0 {
			t.Errorf("d=%d: repulsion potential %v seen from body 0, %v from body 1", d, e0, e1)
		}
	}
}

func TestDampingForce(t *testing.T) {
	alg := ga.MustNew(3)
	p := referenceParams(3)
	p.Damping = 0.5
	w := worldAt(t, p, restingBody(alg, alg.Origin(), alg.Origin()))
	m := NewModel(w)

	b := InitialVelocity(alg)
	acc := m.DampingForce(b).UnDual()
	if dist := acc.Distance(b.Scale(-0.5)); dist > 1e-12 {
		t.Errorf("damping acceleration %s, want %s", acc, b.Scale(-0.5))
	}
}

func TestKineticEnergy(t *testing.T) {
	alg := ga.MustNew(3)
	w := worldAt(t, referenceParams(3), restingBody(alg, alg.Origin(), alg.Origin()))
	m := NewModel(w)

	b := alg.Blade(ga.Mask(0, 1), 0.3).Add(alg.Blade(ga.Mask(1, 2), 0.4))
	if e := m.KineticEnergy(b); math.Abs(e-0.25) > 1e-12 {
		t.Errorf("kinetic energy %v, want 0.25", e)
	}
}

func TestGravityEnergy(t *testing.T) {
	alg := ga.MustNew(3)
	w := worldAt(t, referenceParams(3), restingBody(alg, alg.Origin(), alg.Origin()))
	m := NewModel(w)

	down := alg.Scalar(1).Add(alg.Blade(ga.Mask(0, 2), 0.5)) // origin to y = -1
	if e := m.GravityEnergy(down, 2, -9.81); math.Abs(e+19.62) > 1e-12 {
		t.Errorf("gravity energy %v, want -19.62", e)
	}
}

func TestMirroredPair_InitialForques(t *testing.T) {
	for _, d := range []int{3, 4, 5} {
		w, err := MirroredPair(referenceParams(d))
		if err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		m := NewModel(w)
		f0, f1 := m.Forque(w, 0), m.Forque(w, 1)
		if dist := f0.Distance(f1); dist > 1e-9 {
			t.Errorf("d=%d: mirrored bodies feel different forques: %s vs %s", d, f0, f1)
		}
	}
}

func TestMirroredPair_InitialEnergy(t *testing.T) {
	w, err := MirroredPair(referenceParams(3))
	if err != nil {
		t.Fatal(err)
	}
	e := NewModel(w).Energy(w)

	if math.Abs(e.Kinetic-0.04) > 1e-12 {
		t.Errorf("kinetic %v, want 0.04", e.Kinetic)
	}
	if total := e.Total(); total < 125 || total > 135 {
		t.Errorf("total energy %v outside [125, 135]: %+v", total, e)
	}
	if got := Separation(w, 0, 1); math.Abs(got-2*math.Sqrt(1+math.Pow(math.Sin(0.2), 2))) > 1e-9 {
		t.Errorf("separation %v", got)
	}
}

func TestReferencePair_Initial(t *testing.T) {
	w, err := ReferencePair(referenceParams(3))
	if err != nil {
		t.Fatal(err)
	}

	// Body 1 is the point mirror of body 0 through the origin.
	c0, c1 := w.Bodies[0].Center(), w.Bodies[1].Center()
	want := []float64{math.Sin(0.2), math.Cos(0.2), 1}
	for k := range want {
		if math.Abs(c1[k]-want[k]) > 1e-12 || math.Abs(c0[k]+want[k]) > 1e-12 {
			t.Fatalf("centers %v and %v, want ±%v", c0, c1, want)
		}
	}

	// Both springs start with the world anchor equal to the body anchor.
	for i, x := range [][]float64{{0.5, 0.5, 0.5}, {0.5, -0.5, -0.5}} {
		s := w.Bodies[i].Spring
		a, _ := w.Alg.Coords(s.BodyAnchor)
		b, _ := w.Alg.Coords(s.WorldAnchor)
		for k := range x {
			if math.Abs(a[k]-x[k]) > 1e-12 || math.Abs(b[k]-x[k]) > 1e-12 {
				t.Errorf("body %d anchors %v / %v, want %v", i, a, b, x)
				break
			}
		}
	}

	e := NewModel(w).Energy(w)
	if math.Abs(e.Gravity) > 1e-9 {
		t.Errorf("gravity energy %v, want 0 for a point-mirrored pair", e.Gravity)
	}
	if math.Abs(e.Repulsion-100/math.Sqrt2) > 1e-9 {
		t.Errorf("repulsion energy %v, want %v", e.Repulsion, 100/math.Sqrt2)
	}
	if total := e.Total(); math.Abs(total-134.75) > 0.01 {
		t.Errorf("total energy %v, want about 134.75: %+v", total, e)
	}
	if got := Separation(w, 0, 1); math.Abs(got-2*math.Sqrt2) > 1e-9 {
		t.Errorf("separation %v, want %v", got, 2*math.Sqrt2)
	}
}

func TestScenes_Errors(t *testing.T) {
	p := referenceParams(1)
	if _, err := MirroredPair(p); err == nil {
		t.Error("expected error for dim 1")
	}
	if _, err := Ring(referenceParams(3), 2); err == nil {
		t.Error("expected error for a two-body ring")
	}
	if _, err := Ring(referenceParams(2), 4); err == nil {
		t.Error("expected error for a planar ring")
	}
}

func TestRing(t *testing.T) {
	w, err := Ring(referenceParams(3), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Bodies) != 5 {
		t.Fatalf("expected 5 bodies, got %d", len(w.Bodies))
	}
	for i, b := range w.Bodies {
		if len(b.Neighbors) != 2 {
			t.Errorf("body %d has %d neighbors", i, len(b.Neighbors))
		}
	}
	if e := NewModel(w).Energy(w); e.Spring <= 0 || e.Repulsion <= 0 {
		t.Errorf("expected stretched springs and repulsion, got %+v", e)
	}
}
