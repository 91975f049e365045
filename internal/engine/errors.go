package engine

import "errors"

// Domain errors for simulation setup.
var (
	// ErrNilSimulation indicates a loop was constructed without a simulation.
	ErrNilSimulation = errors.New("engine: nil simulation")

	// ErrDuplicateTarget indicates two targets registered the same ID.
	ErrDuplicateTarget = errors.New("engine: duplicate target id")
)
