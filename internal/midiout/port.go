// Package midiout connects the engine to real MIDI output ports. It
// provides the [Port] sink backed by an rtmidi device and the
// [Recorder] sink that buffers recent emissions for monitoring and
// tests.
package midiout

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	// ErrChannelRange indicates a channel outside the user-facing 1-16.
	ErrChannelRange = errors.New("midiout: channel out of range (1-16)")

	// ErrNoPorts indicates no MIDI output ports exist on this system.
	ErrNoPorts = errors.New("midiout: no MIDI output ports available")

	// ErrPortNotFound indicates no port matched the requested name.
	ErrPortNotFound = errors.New("midiout: output port not found")
)

// Port is a sink that writes to one hardware or virtual MIDI output.
// The MIDI channel is bound at open time; callers never see channel
// numbers on the send path.
type Port struct {
	drv     *rtmididrv.Driver
	out     drivers.Out
	channel uint8 // wire channel, 0-15
	log     *slog.Logger
}

// Open connects to a MIDI output port. Matching tries the exact port
// name first, then a case-insensitive substring; an empty name takes
// the first available port. channel is the user-facing 1-16.
func Open(name string, channel int) (*Port, error) {
	if channel < 1 || channel > 16 {
		return nil, fmt.Errorf("channel %d: %w", channel, ErrChannelRange)
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiout: driver: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiout: list outputs: %w", err)
	}

	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	idx, err := matchName(names, name)
	if err != nil {
		drv.Close()
		return nil, err
	}

	out := outs[idx]
	if err := out.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiout: open %q: %w", out.String(), err)
	}

	logger := slog.Default()
	logger.Info("MIDI output connected", "port", out.String(), "channel", channel)

	return &Port{
		drv:     drv,
		out:     out,
		channel: uint8(channel - 1),
		log:     logger,
	}, nil
}

// matchName resolves a requested port name against the available port
// names: exact match anywhere in the list wins over the first
// case-insensitive substring match.
func matchName(names []string, want string) (int, error) {
	if len(names) == 0 {
		return 0, ErrNoPorts
	}
	if want == "" {
		return 0, nil
	}
	for i, n := range names {
		if n == want {
			return i, nil
		}
	}
	lower := strings.ToLower(want)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("output port %q: %w", want, ErrPortNotFound)
}

// Name returns the connected port's name.
func (p *Port) Name() string { return p.out.String() }

// Channel returns the user-facing channel number (1-16).
func (p *Port) Channel() int { return int(p.channel) + 1 }

func (p *Port) SendControlChange(controller, value uint8) error {
	return p.send(midi.ControlChange(p.channel, controller, value))
}

func (p *Port) SendPitchBend(value int16) error {
	return p.send(midi.Pitchbend(p.channel, value))
}

func (p *Port) send(msg midi.Message) error {
	if err := p.out.Send(msg.Bytes()); err != nil {
		p.log.Warn("MIDI send failed", "port", p.out.String(), "err", err)
		return err
	}
	return nil
}

// Close releases the port and its driver.
func (p *Port) Close() error {
	p.log.Info("closing MIDI output", "port", p.out.String())
	if err := p.out.Close(); err != nil {
		p.drv.Close()
		return err
	}
	return p.drv.Close()
}
