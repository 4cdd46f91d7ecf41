// Package dynamo holds the state records shared by the force model, the
// integrator and the energy monitor.
//
//   - [Body]: motor, body-frame velocity bivector, spring, neighbor indices
//   - [Params]: immutable simulation parameters
//   - [World]: parameters plus the exclusively owned body sequence
//
// Bodies are created once at setup and mutated in place by the integrator.
// None are created or destroyed while stepping.
//
// # Thread Safety
//
// World is NOT thread-safe. It has a single writer (the integrator, inside
// one frame) and no readers while a frame is being advanced.
package dynamo
