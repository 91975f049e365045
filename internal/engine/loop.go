package engine

import (
	"context"
	"sync"
	"time"
)

// TickRate is the fixed simulation rate in ticks per second.
const TickRate = 60

// TickInterval is the wall-clock spacing between ticks.
const TickInterval = time.Second / TickRate

// Loop drives one simulation at the fixed tick rate. Each tick drains
// the pending events through the interaction controller, advances the
// physics, and emits the resulting outputs to the sink. A nil sink is
// legal: the simulation runs silently.
type Loop struct {
	sim  Simulation
	ctrl *Controller
	sink Sink

	mu      sync.Mutex
	pending []Event

	tick   uint64
	sinkOK bool
}

// NewLoop builds a loop around sim. Target registration happens here,
// so a simulation with conflicting target IDs fails fast.
func NewLoop(sim Simulation, sink Sink) (*Loop, error) {
	if sim == nil {
		return nil, ErrNilSimulation
	}
	ctrl, err := NewController(sim.Targets())
	if err != nil {
		return nil, err
	}
	return &Loop{
		sim:    sim,
		ctrl:   ctrl,
		sink:   sink,
		sinkOK: sink != nil,
	}, nil
}

// Push queues an event for the next tick. Safe to call from any
// goroutine.
func (l *Loop) Push(ev Event) {
	l.mu.Lock()
	l.pending = append(l.pending, ev)
	l.mu.Unlock()
}

// HitTest resolves a layout-space point to a target ID.
func (l *Loop) HitTest(p Vec2) (string, bool) {
	return l.ctrl.HitTest(p)
}

// Dragging reports whether the named target is mid-drag.
func (l *Loop) Dragging(id string) bool {
	return l.ctrl.Dragging(id)
}

// Tick runs one simulation step: drain events, integrate, emit.
func (l *Loop) Tick(dt float64) {
	l.mu.Lock()
	events := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, ev := range events {
		l.ctrl.Apply(ev)
	}

	l.sim.Tick(dt)
	l.tick++
	l.emit(l.sim.Outputs())
}

func (l *Loop) emit(outs []Output) {
	if l.sink == nil {
		return
	}
	ok := true
	for _, o := range outs {
		var err error
		switch o.Kind {
		case OutputControl:
			err = l.sink.SendControlChange(o.Controller, uint8(o.Value))
		case OutputBend:
			err = l.sink.SendPitchBend(int16(o.Value))
		}
		if err != nil {
			ok = false
		}
	}
	// Health recovers on the first fully clean tick.
	l.sinkOK = ok
}

// Snapshot returns the simulation's snapshot stamped with the loop's
// tick count and sink health. Loop-goroutine only.
func (l *Loop) Snapshot() Snapshot {
	snap := l.sim.Snapshot()
	snap.Tick = l.tick
	snap.SinkOK = l.sinkOK
	return snap
}

// SinkOK reports whether the last emission round completed cleanly.
// False while no sink is attached.
func (l *Loop) SinkOK() bool { return l.sinkOK }

// Run drives Tick at the fixed rate until ctx is canceled, finishing
// the tick in progress first. Ticks missed under load are dropped, not
// replayed: the stream stays real-time rather than catching up.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(1.0)
		}
	}
}
