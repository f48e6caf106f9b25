// Package inbox buffers bytes delivered by MIDI driver callbacks until the
// run loop drains them.
package inbox

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Drain once the inbox is closed and empty.
var ErrClosed = errors.New("inbox closed")

// Inbox is a bounded byte buffer. Push is safe to call from driver
// callback goroutines while another goroutine drains.
type Inbox struct {
	mu      sync.Mutex
	buf     []byte
	limit   int
	closed  bool
	dropped uint64
}

// New returns an inbox holding at most limit undrained bytes.
func New(limit int) *Inbox {
	if limit <= 0 {
		limit = 1
	}
	return &Inbox{limit: limit}
}

// Push appends data and returns how many bytes did not fit. Pushing into a
// closed inbox drops everything.
func (in *Inbox) Push(data []byte) (dropped int) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		in.dropped += uint64(len(data))
		return len(data)
	}

	free := in.limit - len(in.buf)
	if free < len(data) {
		dropped = len(data) - free
		data = data[:free]
		in.dropped += uint64(dropped)
	}
	in.buf = append(in.buf, data...)
	return dropped
}

// Drain returns and clears everything pushed since the previous call. The
// result is empty, not nil-error, when nothing arrived.
func (in *Inbox) Drain() ([]byte, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if len(in.buf) == 0 {
		if in.closed {
			return nil, ErrClosed
		}
		return nil, nil
	}

	out := in.buf
	in.buf = nil
	return out, nil
}

// Close stops accepting bytes. Bytes already buffered can still be drained.
func (in *Inbox) Close() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
}

// Dropped reports the total number of bytes discarded so far.
func (in *Inbox) Dropped() uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dropped
}
