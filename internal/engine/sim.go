package engine

// OutputKind discriminates emitted message types.
type OutputKind int

const (
	// OutputControl is a control change, value 0-127.
	OutputControl OutputKind = iota

	// OutputBend is a pitch bend, value -8192..8191.
	OutputBend
)

func (k OutputKind) String() string {
	switch k {
	case OutputControl:
		return "cc"
	case OutputBend:
		return "bend"
	default:
		return "unknown"
	}
}

// Output is one message computed on a tick. Controller is unused for
// bend outputs.
type Output struct {
	Kind       OutputKind `json:"kind"`
	Controller uint8      `json:"controller"`
	Value      int        `json:"value"`
}

// Snapshot is a point-in-time view of a simulation for rendering and
// monitoring. Values and Held are keyed by the simulation's own
// parameter names. Tick and SinkOK are stamped by the loop.
type Snapshot struct {
	Module  string             `json:"module"`
	Tick    uint64             `json:"tick"`
	Values  map[string]float64 `json:"values"`
	Held    map[string]bool    `json:"held"`
	Outputs []Output           `json:"outputs"`
	SinkOK  bool               `json:"sink_ok"`
}

// Simulation is one interactive physics scene. Implementations are
// single-goroutine: the loop calls every method from its tick
// goroutine, in the order Tick, Outputs, Snapshot.
type Simulation interface {
	// Name returns the module name used by registries and snapshots.
	Name() string

	// Tick advances the physics by dt ticks. dt is nominally 1.0;
	// constants are tuned for 60 ticks per second.
	Tick(dt float64)

	// Targets returns the manipulable regions. Called once at loop
	// construction; the closures inside read live state afterwards.
	Targets() []Target

	// Outputs returns the messages for the current state. Every tick
	// reports a full set; the emitter does not depend on deltas.
	Outputs() []Output

	// Snapshot returns the current state for rendering and monitoring.
	Snapshot() Snapshot
}

// Sink receives the outputs computed each tick. Implementations talk
// to devices and may fail per message; the loop records failures in
// its sink-health flag and keeps running.
type Sink interface {
	SendControlChange(controller, value uint8) error
	SendPitchBend(value int16) error
}
