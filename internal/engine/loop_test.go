package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSim struct {
	ticks   int
	lastDt  float64
	order   []string
	outs    []Output
	pressed int
	ticked  chan struct{}
}

func (s *stubSim) Name() string { return "stub" }

func (s *stubSim) Tick(dt float64) {
	s.ticks++
	s.lastDt = dt
	s.order = append(s.order, "tick")
	if s.ticked != nil {
		select {
		case s.ticked <- struct{}{}:
		default:
		}
	}
}

func (s *stubSim) Targets() []Target {
	return []Target{{
		ID:  "pad",
		Hit: func(Vec2) bool { return true },
		Press: func() {
			s.pressed++
			s.order = append(s.order, "press")
		},
	}}
}

func (s *stubSim) Outputs() []Output { return s.outs }

func (s *stubSim) Snapshot() Snapshot {
	return Snapshot{Module: "stub", Values: map[string]float64{}}
}

type recordingSink struct {
	ccs   []Output
	bends []Output
	fail  bool
}

func (r *recordingSink) SendControlChange(controller, value uint8) error {
	if r.fail {
		return errors.New("port gone")
	}
	r.ccs = append(r.ccs, Output{Kind: OutputControl, Controller: controller, Value: int(value)})
	return nil
}

func (r *recordingSink) SendPitchBend(value int16) error {
	if r.fail {
		return errors.New("port gone")
	}
	r.bends = append(r.bends, Output{Kind: OutputBend, Value: int(value)})
	return nil
}

func TestLoopNilSimulation(t *testing.T) {
	_, err := NewLoop(nil, nil)
	if !errors.Is(err, ErrNilSimulation) {
		t.Errorf("expected ErrNilSimulation, got %v", err)
	}
}

func TestLoopDrainsEventsBeforeTick(t *testing.T) {
	sim := &stubSim{}
	loop, err := NewLoop(sim, nil)
	if err != nil {
		t.Fatalf("loop: %v", err)
	}

	loop.Push(Event{Kind: EventPress, Target: "pad", At: Vec2{}})
	loop.Tick(1.0)

	if sim.pressed != 1 {
		t.Fatalf("expected 1 press applied, got %d", sim.pressed)
	}
	if len(sim.order) != 2 || sim.order[0] != "press" || sim.order[1] != "tick" {
		t.Errorf("expected press before tick, got %v", sim.order)
	}

	// The queue is drained: a second tick must not replay the event.
	loop.Tick(1.0)
	if sim.pressed != 1 {
		t.Errorf("expected event consumed once, got %d presses", sim.pressed)
	}
}

func TestLoopEmitsEveryTick(t *testing.T) {
	sim := &stubSim{outs: []Output{
		{Kind: OutputControl, Controller: 74, Value: 64},
		{Kind: OutputBend, Value: -8192},
	}}
	sink := &recordingSink{}
	loop, _ := NewLoop(sim, sink)

	loop.Tick(1.0)
	loop.Tick(1.0)

	if len(sink.ccs) != 2 {
		t.Errorf("expected 2 control changes, got %d", len(sink.ccs))
	}
	if len(sink.bends) != 2 {
		t.Errorf("expected 2 bends, got %d", len(sink.bends))
	}
	if sink.ccs[0].Controller != 74 || sink.ccs[0].Value != 64 {
		t.Errorf("unexpected control change %+v", sink.ccs[0])
	}
	if sink.bends[0].Value != -8192 {
		t.Errorf("unexpected bend %+v", sink.bends[0])
	}
	if !loop.SinkOK() {
		t.Error("expected healthy sink")
	}
}

func TestLoopNilSinkRuns(t *testing.T) {
	sim := &stubSim{outs: []Output{{Kind: OutputControl, Controller: 74, Value: 1}}}
	loop, _ := NewLoop(sim, nil)

	loop.Tick(1.0)

	if sim.ticks != 1 {
		t.Errorf("expected simulation to advance without a sink, got %d ticks", sim.ticks)
	}
	if loop.SinkOK() {
		t.Error("expected sink health false with no sink")
	}
}

func TestLoopSinkHealthRecovers(t *testing.T) {
	sim := &stubSim{outs: []Output{{Kind: OutputControl, Controller: 74, Value: 1}}}
	sink := &recordingSink{fail: true}
	loop, _ := NewLoop(sim, sink)

	loop.Tick(1.0)
	if loop.SinkOK() {
		t.Fatal("expected sink health false after failed send")
	}

	// The simulation kept running through the failure.
	if sim.ticks != 1 {
		t.Errorf("expected tick despite send failure, got %d", sim.ticks)
	}

	sink.fail = false
	loop.Tick(1.0)
	if !loop.SinkOK() {
		t.Error("expected sink health to recover on clean tick")
	}
}

func TestLoopSnapshotStamps(t *testing.T) {
	sim := &stubSim{}
	loop, _ := NewLoop(sim, &recordingSink{})

	loop.Tick(1.0)
	loop.Tick(1.0)
	loop.Tick(1.0)

	snap := loop.Snapshot()
	if snap.Tick != 3 {
		t.Errorf("expected tick 3, got %d", snap.Tick)
	}
	if !snap.SinkOK {
		t.Error("expected snapshot to report healthy sink")
	}
	if snap.Module != "stub" {
		t.Errorf("expected module stub, got %q", snap.Module)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	sim := &stubSim{ticked: make(chan struct{}, 1)}
	loop, _ := NewLoop(sim, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case <-sim.ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	if sim.lastDt != 1.0 {
		t.Errorf("expected dt 1.0 per tick, got %f", sim.lastDt)
	}
}
