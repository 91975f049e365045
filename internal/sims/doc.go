// Package sims provides the interactive physics modules that drive
// the output stream.
//
// Each module implements the [engine.Simulation] interface:
//
//   - [Gravity]: three control channels falling back to center under
//     a configurable spring-return force
//   - [Particle]: two bodies in a bounded arena with wall reflection
//     and equal-mass elastic collision, speed scaled by temperature
//   - [Pendulum]: a damped pendulum whose bob position encodes either
//     control values or pitch bend
//
// Modules own their channels and expose their manipulable regions as
// [engine.Target] values in the shared 800x600 layout space.
//
// # Determinism
//
// Particle spawns from a seeded source; every other module is fully
// deterministic given the same event stream.
package sims
