package midiout

import (
	"sync"
	"time"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

// Message is one recorded emission.
type Message struct {
	Kind       string    `json:"kind"`
	Controller uint8     `json:"controller,omitempty"`
	Value      int       `json:"value"`
	At         time.Time `json:"at"`
}

// Recorder is a sink that keeps the most recent emissions, optionally
// forwarding each message to a downstream sink. Safe for concurrent
// use: the loop writes while the monitor API reads.
type Recorder struct {
	mu   sync.Mutex
	next engine.Sink
	buf  []Message
	max  int
}

// NewRecorder buffers up to capacity messages. next may be nil for a
// record-only sink.
func NewRecorder(capacity int, next engine.Sink) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{next: next, max: capacity}
}

func (r *Recorder) SendControlChange(controller, value uint8) error {
	r.record(Message{Kind: "cc", Controller: controller, Value: int(value), At: time.Now()})
	if r.next == nil {
		return nil
	}
	return r.next.SendControlChange(controller, value)
}

func (r *Recorder) SendPitchBend(value int16) error {
	r.record(Message{Kind: "bend", Value: int(value), At: time.Now()})
	if r.next == nil {
		return nil
	}
	return r.next.SendPitchBend(value)
}

func (r *Recorder) record(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, m)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

// Messages returns a copy of the buffered emissions, oldest first.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.buf))
	copy(out, r.buf)
	return out
}

// Len returns the number of buffered messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}
