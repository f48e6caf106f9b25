// Package clock turns a stream of MIDI real-time bytes into transport and
// beat events.
package clock

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// MIDI System Real-Time bytes the interpreter acts on. They are the single
// status bytes of gomidi's midi.TimingClock(), midi.Start() and midi.Stop();
// the interpreter works on raw bytes because no message spans more than one.
const (
	TimingClock byte = 0xF8
	Start       byte = 0xFA
	Stop        byte = 0xFC
)

const (
	// PulsesPerQuarter is the MIDI clock resolution.
	PulsesPerQuarter = 24
	// QuartersPerBeat is how many quarter notes make one reported beat.
	QuartersPerBeat = 4
	// PulsesPerBeat is the number of clock pulses between two beat events.
	PulsesPerBeat = PulsesPerQuarter * QuartersPerBeat
)

// EventKind tags an Event.
type EventKind int

const (
	// EventStart is emitted for a Start byte.
	EventStart EventKind = iota
	// EventStop is emitted for a Stop byte.
	EventStop
	// EventPulse is emitted for every Timing Clock byte.
	EventPulse
	// EventBeat follows the pulse that completes a beat.
	EventBeat
	// EventUnknown is emitted for any other byte.
	EventUnknown
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "START"
	case EventStop:
		return "STOP"
	case EventPulse:
		return "PULSE"
	case EventBeat:
		return "BEAT"
	case EventUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one trace event. Value holds the pulse count for EventPulse,
// the beat count for EventBeat and the raw byte for EventUnknown; it is
// zero for transport events.
type Event struct {
	Kind  EventKind
	Value int
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart, EventStop:
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Value)
	}
}

// State holds the counters since the last Start or Stop.
type State struct {
	Pulses int
	Beats  int
}

// Interpreter tracks transport and pulse position. The zero value is ready
// to use. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	state State
}

// NewInterpreter returns an interpreter with both counters at zero.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// State returns a copy of the current counters.
func (it *Interpreter) State() State {
	return it.state
}

// Process consumes one byte and returns the events it produces: one event,
// or a pulse followed by a beat when the pulse completes a beat.
func (it *Interpreter) Process(b byte) []Event {
	return it.AppendEvents(nil, b)
}

// AppendEvents is Process appending into dst, so a run loop can reuse one
// slice across bytes.
func (it *Interpreter) AppendEvents(dst []Event, b byte) []Event {
	switch b {
	case Start:
		it.state = State{}
		return append(dst, Event{Kind: EventStart})
	case Stop:
		it.state = State{}
		return append(dst, Event{Kind: EventStop})
	case TimingClock:
		it.state.Pulses++
		dst = append(dst, Event{Kind: EventPulse, Value: it.state.Pulses})
		if it.state.Pulses%PulsesPerBeat == 0 {
			it.state.Beats++
			dst = append(dst, Event{Kind: EventBeat, Value: it.state.Beats})
		}
		return dst
	default:
		return append(dst, Event{Kind: EventUnknown, Value: int(b)})
	}
}

// MessageName is gomidi's name for the message whose status byte is b,
// e.g. "Continue" for 0xFB or "ActiveSense" for 0xFE.
func MessageName(b byte) string {
	return midi.Message([]byte{b}).Type().String()
}
