// Package ga implements projective geometric algebra R(d,0,1) over float64.
//
// An [Algebra] fixes the number of spatial dimensions d. It has one
// degenerate generator e0 (e0² = 0) and d Euclidean generators e1..ed
// (ei² = 1). Basis blades are indexed by bitmask: bit 0 is e0, bit i is ei.
//
// A [Multivector] is a dense coefficient vector bound to its algebra and is
// passed by value. Operations never mutate their receiver:
//
//	alg := ga.MustNew(3)
//	p := alg.Point(1, 0, 0)
//	m := alg.Blade(ga.Mask(1, 2), 0.1).Exp()
//	q := m.Sandwich(p)
//
// # Conventions
//
//   - Points are duals of vectors: P(x) = Dual(e0 + Σ xᵢeᵢ).
//   - Dual is the right complement: e_A ∧ Dual(e_A) = e01..d.
//     UnDual is its inverse.
//   - Vee(a, b) = Dual(UnDual(a) ∧ UnDual(b)); the join of two points is the
//     line through them, oriented from the first to the second.
//   - Norm is the Euclidean norm √|⟨x x̃⟩₀|; blades containing e0 do not
//     contribute.
package ga
