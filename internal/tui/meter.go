package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
)

const (
	meterWidth  = 40
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Meter renders one plain ANSI bar per output for headless runs,
// throttled to frameRate so a 60 Hz loop does not flood the terminal.
type Meter struct {
	frameRate int
	lastFrame time.Time
}

func NewMeter(frameRate int) *Meter {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Meter{frameRate: frameRate}
}

func (r *Meter) Start() { fmt.Print(hideCursor) }
func (r *Meter) Stop()  { fmt.Print(showCursor) }

// OnTick draws the snapshot if enough time has passed since the last
// frame.
func (r *Meter) OnTick(snap engine.Snapshot) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("%s  tick %d\n\n", snap.Module, snap.Tick))
	for _, out := range snap.Outputs {
		b.WriteString(meterLine(out) + "\n")
	}
	if !snap.SinkOK {
		b.WriteString("\nsend failing\n")
	}
	fmt.Print(b.String())
}

func meterLine(out engine.Output) string {
	var frac float64
	var label string
	switch out.Kind {
	case engine.OutputControl:
		frac = float64(out.Value) / midimap.ControlMax
		label = fmt.Sprintf("cc%-3d %4d", out.Controller, out.Value)
	case engine.OutputBend:
		frac = (float64(out.Value) - midimap.BendMin) / (midimap.BendMax - midimap.BendMin)
		label = fmt.Sprintf("bend %6d", out.Value)
	}

	filled := int(frac * meterWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > meterWidth {
		filled = meterWidth
	}
	return fmt.Sprintf("%s  %s%s", label,
		strings.Repeat("█", filled), strings.Repeat("░", meterWidth-filled))
}
