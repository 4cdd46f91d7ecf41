package integrators

import (
	"testing"

	"github.com/san-kum/forque/internal/physics"
)

func benchmarkPair(b *testing.B, d int) {
	w, err := physics.MirroredPair(referenceParams(d))
	if err != nil {
		b.Fatal(err)
	}
	integ := NewSymplectic(w)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Substep(w, w.Params.Dt)
	}
}

func BenchmarkSymplectic_Square(b *testing.B)    { benchmarkPair(b, 2) }
func BenchmarkSymplectic_Cube(b *testing.B)      { benchmarkPair(b, 3) }
func BenchmarkSymplectic_Tesseract(b *testing.B) { benchmarkPair(b, 4) }

func BenchmarkSymplectic_Ring8(b *testing.B) {
	w, err := physics.Ring(referenceParams(3), 8)
	if err != nil {
		b.Fatal(err)
	}
	integ := NewSymplectic(w)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Frame(w)
	}
}

func BenchmarkForque(b *testing.B) {
	w, err := physics.MirroredPair(referenceParams(3))
	if err != nil {
		b.Fatal(err)
	}
	m := physics.NewModel(w)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Forque(w, 0)
	}
}
