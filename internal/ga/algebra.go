package ga

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
)

// MaxDim bounds the number of spatial dimensions. The Cayley table grows as
// 4^(d+1).
const MaxDim = 7

// ErrDimension is returned for unsupported dimension counts.
var ErrDimension = errors.New("ga: dimension out of range")

// Algebra holds the precomputed multiplication and duality tables for
// R(D,0,1).
type Algebra struct {
	D    int
	N    int
	Size int

	grade []int

	// Geometric product of blades i and j is sign[i*Size+j] * e_prod[i*Size+j].
	// prod is -1 when the product vanishes (shared e0).
	prod []int
	sign []float64

	// Outer product tables, same layout as prod/sign.
	wedge     []int
	wedgeSign []float64

	dualSign   []float64
	undualSign []float64
}

var (
	cacheMu sync.Mutex
	cache   = map[int]*Algebra{}
)

// New returns the algebra for d spatial dimensions. Algebras are cached and
// immutable, so the same pointer is returned for the same d.
func New(d int) (*Algebra, error) {
	if d < 1 || d > MaxDim {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrDimension, d, MaxDim)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if a, ok := cache[d]; ok {
		return a, nil
	}
	a := build(d)
	cache[d] = a
	return a, nil
}

// MustNew is like New but panics on an invalid dimension.
func MustNew(d int) *Algebra {
	a, err := New(d)
	if err != nil {
		panic(err)
	}
	return a
}

func build(d int) *Algebra {
	n := d + 1
	size := 1 << n
	a := &Algebra{
		D:          d,
		N:          n,
		Size:       size,
		grade:      make([]int, size),
		prod:       make([]int, size*size),
		sign:       make([]float64, size*size),
		wedge:      make([]int, size*size),
		wedgeSign:  make([]float64, size*size),
		dualSign:   make([]float64, size),
		undualSign: make([]float64, size),
	}

	full := size - 1
	for i := 0; i < size; i++ {
		a.grade[i] = bits.OnesCount(uint(i))
		a.dualSign[i] = reorderSign(i, full^i)
		a.undualSign[i] = reorderSign(full^i, i)

		for j := 0; j < size; j++ {
			k := i*size + j
			s := reorderSign(i, j)

			if i&j&1 != 0 {
				a.prod[k] = -1
			} else {
				a.prod[k] = i ^ j
				a.sign[k] = s
			}

			if i&j != 0 {
				a.wedge[k] = -1
			} else {
				a.wedge[k] = i | j
				a.wedgeSign[k] = s
			}
		}
	}
	return a
}

// reorderSign is the sign picked up when the generators of blade a followed
// by those of blade b are sorted into canonical order.
func reorderSign(a, b int) float64 {
	a >>= 1
	n := 0
	for a != 0 {
		n += bits.OnesCount(uint(a & b))
		a >>= 1
	}
	if n&1 == 0 {
		return 1
	}
	return -1
}

// Grade returns the grade of the blade with the given index.
func (a *Algebra) Grade(blade int) int { return a.grade[blade] }

// Mask builds a blade index from generator numbers, e.g. Mask(0, 2) is e02.
func Mask(gens ...int) int {
	m := 0
	for _, g := range gens {
		m |= 1 << g
	}
	return m
}

// BladeName renders a blade index as e.g. "e013"; the scalar blade is "1".
func (a *Algebra) BladeName(blade int) string {
	if blade == 0 {
		return "1"
	}
	name := []byte{'e'}
	for g := 0; g < a.N; g++ {
		if blade&(1<<g) != 0 {
			name = append(name, byte('0'+g))
		}
	}
	return string(name)
}

// Zero returns the zero multivector.
func (a *Algebra) Zero() Multivector {
	return Multivector{alg: a, c: make([]float64, a.Size)}
}

// Scalar returns s as a grade-0 multivector.
func (a *Algebra) Scalar(s float64) Multivector {
	m := a.Zero()
	m.c[0] = s
	return m
}

// Blade returns v times the basis blade with the given index.
func (a *Algebra) Blade(blade int, v float64) Multivector {
	m := a.Zero()
	m.c[blade] = v
	return m
}

// FromCoeffs copies a full coefficient slice into a multivector.
func (a *Algebra) FromCoeffs(c []float64) (Multivector, error) {
	if len(c) != a.Size {
		return Multivector{}, fmt.Errorf("%w: %d coefficients for %d blades", ErrDimension, len(c), a.Size)
	}
	m := a.Zero()
	copy(m.c, c)
	return m, nil
}

// Vector returns w·e0 + Σ xᵢeᵢ. It panics if len(x) != D.
func (a *Algebra) Vector(w float64, x ...float64) Multivector {
	if len(x) != a.D {
		panic(fmt.Sprintf("ga: vector needs %d coordinates, got %d", a.D, len(x)))
	}
	m := a.Zero()
	m.c[1] = w
	for i, v := range x {
		m.c[1<<(i+1)] = v
	}
	return m
}

// Point returns the normalized point at Euclidean coordinates x.
func (a *Algebra) Point(x ...float64) Multivector {
	return a.Vector(1, x...).Dual()
}

// Origin returns the point at the origin.
func (a *Algebra) Origin() Multivector {
	return a.Point(make([]float64, a.D)...)
}

// IdealLine returns v·e0∧e_axis, the direction element used for uniform
// fields along an axis (1-based).
func (a *Algebra) IdealLine(axis int, v float64) Multivector {
	if axis < 1 || axis > a.D {
		panic(fmt.Sprintf("ga: axis %d outside 1..%d", axis, a.D))
	}
	return a.Blade(Mask(0, axis), v)
}

// Coords extracts Euclidean coordinates from a point. ok is false for ideal
// points (zero weight).
func (a *Algebra) Coords(p Multivector) (x []float64, ok bool) {
	v := p.UnDual()
	w := v.c[1]
	x = make([]float64, a.D)
	if w == 0 {
		for i := range x {
			x[i] = v.c[1<<(i+1)]
		}
		return x, false
	}
	for i := range x {
		x[i] = v.c[1<<(i+1)] / w
	}
	return x, true
}
