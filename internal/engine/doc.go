// Package engine provides the core primitives for interactive physics
// simulations that emit MIDI-shaped control streams.
//
// The package defines the types shared by every simulation module:
//
//   - [Channel]: a scalar parameter owned by physics or by a user hold
//   - [Target]: a manipulable region with live hit geometry
//   - [Controller]: routes pointer events to targets with drag state
//   - [Simulation]: interface one physics scene implements
//   - [Loop]: fixed-rate driver that integrates, emits, and snapshots
//
// # Example
//
//	loop, _ := engine.NewLoop(sim, sink)
//	loop.Run(ctx)
//
// # Thread Safety
//
// Loop instances are NOT thread-safe except for [Loop.Push], which may
// be called from any goroutine. Tick, Snapshot, and the simulation
// itself belong to a single goroutine.
package engine
