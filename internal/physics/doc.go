// Package physics provides the force model, the hypercube mesh and the
// built-in scenes.
//
// Forces are lines in the body frame of the body they act on:
//
//   - [Model.Gravity]: uniform field g·e0∧e_axis pulled into the body frame
//   - [Model.DampingForce]: linear drag on the velocity bivector
//   - [Model.Hooke]: spring between a body anchor and a world anchor
//   - [Model.Repulsion]: inverse-square push away from each neighbor
//
// [Model.Forque] sums them. Every method is pure.
//
// # Energy
//
// [Model.Energy] reports twice the physical energy of unit-mass,
// unit-inertia bodies. Only differences and relative spreads are meaningful:
//
//	w, _ := physics.ReferencePair(params)
//	e0 := physics.NewModel(w).Energy(w).Total()
package physics
