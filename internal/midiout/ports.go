package midiout

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Ports lists the names of the available MIDI output ports. A fresh
// driver is opened and closed per call, so listing works before any
// port is connected.
func Ports() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiout: driver: %w", err)
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("midiout: list outputs: %w", err)
	}

	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}
