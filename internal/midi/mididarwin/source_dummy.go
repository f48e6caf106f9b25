//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/gardiner/stepsequencer/sdk/contracts"
)

type dummyMIDISource struct {
	logger contracts.Logger
}

// NewMIDISource returns a source that is never used outside macOS.
func NewMIDISource(options *contracts.ClientOptions) (contracts.MIDISource, error) {
	options.Logger.Info("Using dummy MIDI source for non-macOS system")
	return &dummyMIDISource{
		logger: options.Logger,
	}, nil
}

func (m *dummyMIDISource) Receive() ([]byte, error) {
	m.logger.Warn("Receive called on dummy MIDI source")
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (m *dummyMIDISource) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI source")
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}

func (m *dummyMIDISource) Name() string {
	return ""
}

func (m *dummyMIDISource) Close() error {
	m.logger.Warn("Close called on dummy MIDI source")
	return nil
}

// ListDevices reports that CoreMIDI is unavailable.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	return nil, fmt.Errorf("CoreMIDI is not available on this platform")
}
