package tui

import (
	"strings"
	"testing"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

func TestLayoutPointMapping(t *testing.T) {
	m := model{width: 86, height: 29}
	cw, ch := m.canvasSize()
	if cw != 80 || ch != 15 {
		t.Fatalf("unexpected canvas size %dx%d", cw, ch)
	}

	// First canvas cell maps to the center of its layout region.
	pt := m.layoutPoint(canvasLeft, canvasTop)
	if pt.X != 5 || pt.Y != 20 {
		t.Errorf("expected (5, 20), got %v", pt)
	}

	// A cell in the middle of the canvas lands near layout center.
	pt = m.layoutPoint(canvasLeft+cw/2, canvasTop+ch/2)
	if pt.X < 395 || pt.X > 415 {
		t.Errorf("expected x near 400, got %f", pt.X)
	}
	if pt.Y < 290 || pt.Y > 310 {
		t.Errorf("expected y near 300, got %f", pt.Y)
	}
}

func TestCanvasSizeFloors(t *testing.T) {
	m := model{width: 20, height: 10}
	cw, ch := m.canvasSize()
	if cw != 60 || ch != 15 {
		t.Errorf("expected floor 60x15, got %dx%d", cw, ch)
	}
}

func TestMeterLineControlRange(t *testing.T) {
	full := meterLine(engine.Output{Kind: engine.OutputControl, Controller: 74, Value: 127})
	if got := strings.Count(full, "█"); got != meterWidth {
		t.Errorf("expected full bar, got %d blocks", got)
	}

	empty := meterLine(engine.Output{Kind: engine.OutputControl, Controller: 74, Value: 0})
	if got := strings.Count(empty, "█"); got != 0 {
		t.Errorf("expected empty bar, got %d blocks", got)
	}
}

func TestMeterLineBendRange(t *testing.T) {
	low := meterLine(engine.Output{Kind: engine.OutputBend, Value: -8192})
	if got := strings.Count(low, "█"); got != 0 {
		t.Errorf("expected empty bar at full left, got %d blocks", got)
	}

	high := meterLine(engine.Output{Kind: engine.OutputBend, Value: 8191})
	if got := strings.Count(high, "█"); got != meterWidth {
		t.Errorf("expected full bar at full right, got %d blocks", got)
	}

	mid := meterLine(engine.Output{Kind: engine.OutputBend, Value: 0})
	if got := strings.Count(mid, "█"); got != meterWidth/2 {
		t.Errorf("expected half bar at center, got %d blocks", got)
	}
}

func TestPortEntriesOfferNoDeviceFirst(t *testing.T) {
	m := model{ports: []string{"Synth A", "Synth B"}}
	entries := m.portEntries()

	if entries[0] != noDevice {
		t.Errorf("expected %q first, got %q", noDevice, entries[0])
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}
