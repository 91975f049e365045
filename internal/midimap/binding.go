package midimap

import (
	"errors"
	"fmt"
)

// ErrControllerRange indicates a controller number outside 0-127.
var ErrControllerRange = errors.New("midimap: controller number out of range (0-127)")

// Mode selects how a simulation coordinate reaches the wire.
type Mode int

const (
	// ModeControl emits 7-bit control changes.
	ModeControl Mode = iota

	// ModeBend emits signed 14-bit pitch bend.
	ModeBend
)

func (m Mode) String() string {
	switch m {
	case ModeControl:
		return "cc"
	case ModeBend:
		return "bend"
	default:
		return "unknown"
	}
}

// ParseMode reads a mode from its configuration spelling.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "cc":
		return ModeControl, nil
	case "bend":
		return ModeBend, nil
	default:
		return 0, fmt.Errorf("midimap: unknown output mode %q (want cc or bend)", s)
	}
}

// Binding assigns one simulation parameter to a controller number.
type Binding struct {
	Controller uint8
	Label      string
}

func (b Binding) Validate() error {
	if b.Controller > ControlMax {
		return fmt.Errorf("%s (cc %d): %w", b.Label, b.Controller, ErrControllerRange)
	}
	return nil
}
