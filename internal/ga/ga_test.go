package ga

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const tol = 1e-12

func randomMV(alg *Algebra, r *rand.Rand) Multivector {
	m := alg.Zero()
	for i := range m.c {
		m.c[i] = r.Float64()*2 - 1
	}
	return m
}

func TestNew_Bounds(t *testing.T) {
	for _, d := range []int{0, -1, MaxDim + 1} {
		if _, err := New(d); !errors.Is(err, ErrDimension) {
			t.Errorf("New(%d): expected ErrDimension, got %v", d, err)
		}
	}

	a, err := New(3)
	if err != nil {
		t.Fatalf("New(3): %v", err)
	}
	if a.Size != 16 {
		t.Errorf("expected 16 blades, got %d", a.Size)
	}
	if b := MustNew(3); b != a {
		t.Error("expected cached algebra")
	}
}

func TestBasisSquares(t *testing.T) {
	alg := MustNew(3)

	tests := []struct {
		name  string
		blade int
		want  float64
	}{
		{"e0", Mask(0), 0},
		{"e1", Mask(1), 1},
		{"e3", Mask(3), 1},
		{"e12", Mask(1, 2), -1},
		{"e01", Mask(0, 1), 0},
		{"e123", Mask(1, 2, 3), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := alg.Blade(tt.blade, 1)
			sq := b.Mul(b)
			if math.Abs(sq.Scalar()-tt.want) > tol {
				t.Errorf("%s² = %v, want %v", tt.name, sq.Scalar(), tt.want)
			}
			if sq.GradeResidual(0) > tol {
				t.Errorf("%s² has non-scalar part %s", tt.name, sq)
			}
		})
	}
}

func TestProduct_Associative(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for d := 1; d <= 4; d++ {
		alg := MustNew(d)
		for i := 0; i < 20; i++ {
			a, b, c := randomMV(alg, r), randomMV(alg, r), randomMV(alg, r)
			lhs := a.Mul(b).Mul(c)
			rhs := a.Mul(b.Mul(c))
			if dist := lhs.Distance(rhs); dist > 1e-9 {
				t.Fatalf("d=%d: (ab)c != a(bc), distance %g", d, dist)
			}
		}
	}
}

func TestReverse_OfProduct(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	alg := MustNew(3)
	for i := 0; i < 20; i++ {
		a, b := randomMV(alg, r), randomMV(alg, r)
		lhs := a.Mul(b).Reverse()
		rhs := b.Reverse().Mul(a.Reverse())
		if dist := lhs.Distance(rhs); dist > 1e-9 {
			t.Fatalf("rev(ab) != rev(b)rev(a), distance %g", dist)
		}
	}
}

func TestDual_Inverse(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for d := 1; d <= 5; d++ {
		alg := MustNew(d)
		m := randomMV(alg, r)
		if dist := m.Dual().UnDual().Distance(m); dist > tol {
			t.Errorf("d=%d: UnDual(Dual(m)) != m (distance %g)", d, dist)
		}
		if dist := m.UnDual().Dual().Distance(m); dist > tol {
			t.Errorf("d=%d: Dual(UnDual(m)) != m (distance %g)", d, dist)
		}
	}
}

func TestDual_RightComplement(t *testing.T) {
	alg := MustNew(3)
	pseudo := alg.Size - 1
	for blade := 0; blade < alg.Size; blade++ {
		b := alg.Blade(blade, 1)
		w := b.Wedge(b.Dual())
		if math.Abs(w.Coeff(pseudo)-1) > tol {
			t.Errorf("%s ∧ Dual(%s) = %s, want e0123", alg.BladeName(blade), alg.BladeName(blade), w)
		}
	}
}

func TestPoint_Coords(t *testing.T) {
	alg := MustNew(3)
	p := alg.Point(1.5, -2, 0.25)

	if p.GradeResidual(3) > tol {
		t.Fatalf("point is not a trivector: %s", p)
	}

	x, ok := alg.Coords(p.Scale(2))
	if !ok {
		t.Fatal("expected finite point")
	}
	want := []float64{1.5, -2, 0.25}
	for i := range want {
		if math.Abs(x[i]-want[i]) > tol {
			t.Errorf("coord %d: got %v, want %v", i, x[i], want[i])
		}
	}
}

func TestVee_PointsGiveDisplacement(t *testing.T) {
	for d := 2; d <= 4; d++ {
		alg := MustNew(d)
		a := make([]float64, d)
		b := make([]float64, d)
		for i := 0; i < d; i++ {
			a[i] = float64(i) * 0.5
			b[i] = 1 - float64(i)
		}

		line := alg.Point(a...).Vee(alg.Point(b...))
		if line.GradeResidual(d-1) > tol {
			t.Fatalf("d=%d: join of points has grade residual %g", d, line.GradeResidual(d-1))
		}

		dir := line.UnDual()
		dist := 0.0
		for i := 0; i < d; i++ {
			want := b[i] - a[i]
			got := dir.Coeff(Mask(0, i+1))
			if math.Abs(got-want) > tol {
				t.Errorf("d=%d axis %d: direction %v, want %v", d, i+1, got, want)
			}
			dist += want * want
		}
		if math.Abs(line.Norm()-math.Sqrt(dist)) > tol {
			t.Errorf("d=%d: |line| = %v, want %v", d, line.Norm(), math.Sqrt(dist))
		}
	}
}

func TestExp_Translator(t *testing.T) {
	alg := MustNew(3)
	// exp(-½ t e01) translates by +t along e1.
	m := alg.Blade(Mask(0, 1), -0.5*2.5).Exp()
	x, _ := alg.Coords(m.Sandwich(alg.Origin()))

	want := []float64{2.5, 0, 0}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Errorf("coord %d: got %v, want %v", i, x[i], want[i])
		}
	}
}

func TestExp_Rotor(t *testing.T) {
	alg := MustNew(3)
	theta := 0.7
	// exp(-½θ e12) turns e1 toward e2.
	m := alg.Blade(Mask(1, 2), -0.5*theta).Exp()

	if math.Abs(m.Scalar()-math.Cos(theta/2)) > 1e-12 {
		t.Errorf("scalar part %v, want %v", m.Scalar(), math.Cos(theta/2))
	}

	x, _ := alg.Coords(m.Sandwich(alg.Point(1, 0, 0)))
	want := []float64{math.Cos(theta), math.Sin(theta), 0}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Errorf("coord %d: got %v, want %v", i, x[i], want[i])
		}
	}
}

func TestNormalizedMotor(t *testing.T) {
	alg := MustNew(3)
	// A first-order screw update leaves a pseudoscalar part in m m̃.
	m := alg.Scalar(1).
		Add(alg.Blade(Mask(1, 2), 0.05)).
		Add(alg.Blade(Mask(0, 3), 0.04))

	mm := m.Mul(m.Reverse())
	if mm.GradeResidual(0) < 1e-4 {
		t.Fatalf("expected drift in m m̃, got %s", mm)
	}

	n := m.NormalizedMotor()
	nn := n.Mul(n.Reverse())
	if math.Abs(nn.Scalar()-1) > 1e-12 {
		t.Errorf("scalar part of n ñ = %v, want 1", nn.Scalar())
	}
	if nn.GradeResidual(0) > 1e-12 {
		t.Errorf("n ñ still has non-scalar part %s", nn)
	}
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("norm %v, want 1", n.Norm())
	}
}

func TestGrade(t *testing.T) {
	alg := MustNew(3)
	m := alg.Scalar(2).
		Add(alg.Blade(Mask(1, 2), 3)).
		Add(alg.Blade(Mask(0, 1, 2), 4))

	b := m.Grade(2)
	if b.Coeff(Mask(1, 2)) != 3 || b.Scalar() != 0 {
		t.Errorf("Grade(2) = %s", b)
	}
	if got, want := m.GradeResidual(2), 2*math.Sqrt(5); math.Abs(got-want) > tol {
		t.Errorf("GradeResidual(2) = %v, want %v", got, want)
	}
	if e := m.Even(); e.Coeff(Mask(0, 1, 2)) != 0 || e.Scalar() != 2 {
		t.Errorf("Even() = %s", e)
	}
}

func TestString(t *testing.T) {
	alg := MustNew(3)
	m := alg.Blade(Mask(0, 1), 0.1).Add(alg.Blade(Mask(1, 2), -0.1))
	if got, want := m.String(), "0.1e01 - 0.1e12"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := alg.Zero().String(); got != "0" {
		t.Errorf("zero String() = %q", got)
	}
}

func TestIsValid(t *testing.T) {
	alg := MustNew(2)
	m := alg.Scalar(1)
	if !m.IsValid() {
		t.Error("finite multivector reported invalid")
	}
	if alg.Scalar(math.NaN()).IsValid() {
		t.Error("NaN multivector reported valid")
	}
	if alg.Blade(Mask(1), math.Inf(1)).IsValid() {
		t.Error("Inf multivector reported valid")
	}
}
