//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/gardiner/stepsequencer/sdk/contracts"
)

type dummyMIDISource struct {
	logger contracts.Logger
}

// NewMIDISource initializes a dummy MIDI source for non-Windows systems.
func NewMIDISource(options *contracts.ClientOptions) (contracts.MIDISource, error) {
	options.Logger.Info("Using dummy MIDI source for non-Windows system")
	return &dummyMIDISource{
		logger: options.Logger,
	}, nil
}

// Receive logs a warning and reports that winmm is unavailable.
func (m *dummyMIDISource) Receive() ([]byte, error) {
	m.logger.Warn("Receive called on dummy MIDI source")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

// ListDevices logs a warning and reports that winmm is unavailable.
func (m *dummyMIDISource) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI source")
	return nil, fmt.Errorf("winmm is not available on this platform")
}

// Name is empty for the dummy source.
func (m *dummyMIDISource) Name() string {
	return ""
}

// Close logs a warning.
func (m *dummyMIDISource) Close() error {
	m.logger.Warn("Close called on dummy MIDI source")
	return nil
}

// ListDevices reports that the backend is unavailable.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	return nil, fmt.Errorf("winmm is not available on this platform")
}
