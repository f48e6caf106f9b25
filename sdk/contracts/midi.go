package contracts

import "errors"

// ErrSourceClosed is returned by Receive once the source has been closed and drained.
var ErrSourceClosed = errors.New("midi source closed")

// MIDISource is a named MIDI input that buffers every byte it receives
// until the next call to Receive.
type MIDISource interface {
	// Receive returns the bytes that arrived since the previous call. The
	// result is empty when nothing arrived.
	Receive() ([]byte, error)
	// ListDevices lists the MIDI inputs known to the backend.
	ListDevices() ([]DeviceInfo, error)
	// Name is the name under which other MIDI software sees this input.
	Name() string
	// Close releases the destination. Bytes received before Close can
	// still be drained; afterwards Receive returns ErrSourceClosed.
	Close() error
}
