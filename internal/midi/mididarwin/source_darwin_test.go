//go:build darwin
// +build darwin

package mididarwin

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gardiner/stepsequencer/internal/logger"
	"github.com/gardiner/stepsequencer/internal/midi/inbox"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"go.uber.org/zap/zaptest"
)

type fakeDestination struct {
	disposed int
}

func (f *fakeDestination) Dispose() {
	f.disposed++
}

func newTestSource(t *testing.T, dest internalDestination) *DestinationSource {
	return &DestinationSource{
		logger:      logger.NewFromZap(zaptest.NewLogger(t)),
		name:        "clock in",
		destination: dest,
		inbox:       inbox.New(8),
	}
}

func TestHandlePacketQueuesData(t *testing.T) {
	s := newTestSource(t, &fakeDestination{})

	s.handlePacket(coremidi.NewPacket([]byte{0xFA, 0xF8}, 1))
	s.handlePacket(coremidi.NewPacket([]byte{0xF8}, 2))

	got, err := s.Receive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xFA, 0xF8, 0xF8}) {
		t.Errorf("expected [250 248 248], got %v", got)
	}
}

func TestCloseDisposesDestination(t *testing.T) {
	dest := &fakeDestination{}
	s := newTestSource(t, dest)
	s.handlePacket(coremidi.NewPacket([]byte{0xFC}, 1))

	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if dest.disposed != 1 {
		t.Errorf("expected destination disposed once, got %d", dest.disposed)
	}

	got, err := s.Receive()
	if err != nil || !bytes.Equal(got, []byte{0xFC}) {
		t.Errorf("expected buffered [252] after close, got %v, %v", got, err)
	}
	if _, err := s.Receive(); !errors.Is(err, contracts.ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed, got %v", err)
	}
}
