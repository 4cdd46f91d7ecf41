package ga

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Multivector is a general element of an Algebra. The zero value is not
// usable; obtain multivectors from an Algebra.
type Multivector struct {
	alg *Algebra
	c   []float64
}

// Algebra returns the algebra m belongs to.
func (m Multivector) Algebra() *Algebra { return m.alg }

// Coeff returns the coefficient of the given blade.
func (m Multivector) Coeff(blade int) float64 { return m.c[blade] }

// Coeffs returns a copy of all coefficients in blade-index order.
func (m Multivector) Coeffs() []float64 {
	out := make([]float64, len(m.c))
	copy(out, m.c)
	return out
}

// Scalar returns the grade-0 part.
func (m Multivector) Scalar() float64 { return m.c[0] }

func (m Multivector) clone() Multivector {
	return Multivector{alg: m.alg, c: m.Coeffs()}
}

func (m Multivector) mustMatch(o Multivector) {
	if m.alg != o.alg {
		panic("ga: multivectors from different algebras")
	}
}

// Add returns m + o.
func (m Multivector) Add(o Multivector) Multivector {
	m.mustMatch(o)
	r := m.clone()
	for i, v := range o.c {
		r.c[i] += v
	}
	return r
}

// Sub returns m - o.
func (m Multivector) Sub(o Multivector) Multivector {
	m.mustMatch(o)
	r := m.clone()
	for i, v := range o.c {
		r.c[i] -= v
	}
	return r
}

// Scale returns s·m.
func (m Multivector) Scale(s float64) Multivector {
	r := m.clone()
	for i := range r.c {
		r.c[i] *= s
	}
	return r
}

// AddScaled returns m + s·o without an intermediate allocation.
func (m Multivector) AddScaled(s float64, o Multivector) Multivector {
	m.mustMatch(o)
	r := m.clone()
	for i, v := range o.c {
		r.c[i] += s * v
	}
	return r
}

// Mul returns the geometric product m·o.
func (m Multivector) Mul(o Multivector) Multivector {
	m.mustMatch(o)
	return m.product(o, m.alg.prod, m.alg.sign)
}

// Wedge returns the outer product m ∧ o.
func (m Multivector) Wedge(o Multivector) Multivector {
	m.mustMatch(o)
	return m.product(o, m.alg.wedge, m.alg.wedgeSign)
}

func (m Multivector) product(o Multivector, idx []int, sign []float64) Multivector {
	size := m.alg.Size
	r := m.alg.Zero()
	for i, x := range m.c {
		if x == 0 {
			continue
		}
		row := i * size
		for j, y := range o.c {
			if y == 0 {
				continue
			}
			k := idx[row+j]
			if k < 0 {
				continue
			}
			r.c[k] += sign[row+j] * x * y
		}
	}
	return r
}

// Vee returns the regressive product m ∨ o. For two points it is the line
// through them, oriented from m to o.
func (m Multivector) Vee(o Multivector) Multivector {
	return m.UnDual().Wedge(o.UnDual()).Dual()
}

// Commutator returns ½(m·o − o·m).
func (m Multivector) Commutator(o Multivector) Multivector {
	return m.Mul(o).Sub(o.Mul(m)).Scale(0.5)
}

// Dual returns the right complement of m.
func (m Multivector) Dual() Multivector {
	full := m.alg.Size - 1
	r := m.alg.Zero()
	for i, v := range m.c {
		if v != 0 {
			r.c[full^i] = m.alg.dualSign[i] * v
		}
	}
	return r
}

// UnDual inverts Dual: m.Dual().UnDual() == m.
func (m Multivector) UnDual() Multivector {
	full := m.alg.Size - 1
	r := m.alg.Zero()
	for i, v := range m.c {
		if v != 0 {
			r.c[full^i] = m.alg.undualSign[i] * v
		}
	}
	return r
}

// Reverse returns m with the order of generators in every blade reversed.
func (m Multivector) Reverse() Multivector {
	r := m.clone()
	for i := range r.c {
		if k := m.alg.grade[i]; k%4 == 2 || k%4 == 3 {
			r.c[i] = -r.c[i]
		}
	}
	return r
}

// Grade returns the grade-k part of m.
func (m Multivector) Grade(k int) Multivector {
	r := m.alg.Zero()
	for i, v := range m.c {
		if m.alg.grade[i] == k {
			r.c[i] = v
		}
	}
	return r
}

// Even returns the even-grade part of m.
func (m Multivector) Even() Multivector {
	r := m.alg.Zero()
	for i, v := range m.c {
		if m.alg.grade[i]%2 == 0 {
			r.c[i] = v
		}
	}
	return r
}

// GradeResidual is the Euclidean size of everything outside grade k,
// including degenerate blades.
func (m Multivector) GradeResidual(k int) float64 {
	s := 0.0
	for i, v := range m.c {
		if m.alg.grade[i] != k {
			s += v * v
		}
	}
	return math.Sqrt(s)
}

// Norm returns √|⟨m m̃⟩₀|.
func (m Multivector) Norm() float64 {
	s := 0.0
	for i, v := range m.c {
		if i&1 == 0 {
			s += v * v
		}
	}
	return math.Sqrt(s)
}

// Normalized returns m / Norm(m). A zero-norm input is returned unchanged.
func (m Multivector) Normalized() Multivector {
	n := m.Norm()
	if n == 0 {
		return m.clone()
	}
	return m.Scale(1 / n)
}

// NormalizedMotor projects a slightly perturbed motor back to a unit motor:
// it removes the non-scalar part N of m̃ m to first order, m·(1 − N/2s), and
// then rescales to unit norm. Working on m̃ m keeps the result covariant
// under left multiplication: NormalizedMotor(S·m) = S·NormalizedMotor(m)
// for any unit motor S.
func (m Multivector) NormalizedMotor() Multivector {
	mm := m.Reverse().Mul(m)
	s := mm.c[0]
	if s <= 0 {
		return m.Normalized()
	}
	corr := mm.Scale(-0.5 / s)
	corr.c[0] = 1
	return m.Mul(corr).Normalized()
}

// Sandwich returns m·x·m̃, the action of a motor on x.
func (m Multivector) Sandwich(x Multivector) Multivector {
	return m.Mul(x).Mul(m.Reverse())
}

// Exp returns the exponential of m by scaling and squaring a truncated
// series.
func (m Multivector) Exp() Multivector {
	bound := 0.0
	for _, v := range m.c {
		bound += math.Abs(v)
	}
	k := 0
	for bound > 0.5 {
		bound /= 2
		k++
	}
	x := m.Scale(math.Ldexp(1, -k))

	sum := m.alg.Scalar(1)
	term := m.alg.Scalar(1)
	for i := 1; i <= 16; i++ {
		term = term.Mul(x).Scale(1 / float64(i))
		sum = sum.Add(term)
	}
	for ; k > 0; k-- {
		sum = sum.Mul(sum)
	}
	return sum
}

// Distance is the Euclidean size of m − o coefficient-wise.
func (m Multivector) Distance(o Multivector) float64 {
	m.mustMatch(o)
	s := 0.0
	for i, v := range m.c {
		d := v - o.c[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// IsValid reports whether every coefficient is finite.
func (m Multivector) IsValid() bool {
	for _, v := range m.c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String renders the non-zero terms, e.g. "0.1e01 + 0.1e12".
func (m Multivector) String() string {
	if m.alg == nil {
		return "<nil>"
	}
	var b strings.Builder
	for i, v := range m.c {
		if v == 0 {
			continue
		}
		if b.Len() > 0 {
			if v < 0 {
				b.WriteString(" - ")
				v = -v
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		if i != 0 {
			b.WriteString(m.alg.BladeName(i))
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// GoString implements fmt.GoStringer for test failure output.
func (m Multivector) GoString() string {
	return fmt.Sprintf("ga.Multivector{d=%d, %s}", m.alg.D, m.String())
}
