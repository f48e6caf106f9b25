package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gardiner/stepsequencer/internal/midi/mididarwin"
	"github.com/gardiner/stepsequencer/internal/midi/midilinux"
	"github.com/gardiner/stepsequencer/internal/midi/midiwindows"
	"github.com/gardiner/stepsequencer/sdk/contracts"
)

// ErrUnsupportedOS is returned when no MIDI backend exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// sourceInitializers maps OS names to the backend that creates the source.
var sourceInitializers = map[string]func(*contracts.ClientOptions) (contracts.MIDISource, error){
	"darwin":  mididarwin.NewMIDISource,  // CoreMIDI virtual destination.
	"linux":   midilinux.NewMIDISource,   // ALSA virtual input through rtmidi.
	"windows": midiwindows.NewMIDISource, // winmm input device.
}

// deviceListers maps OS names to the backend's device enumeration, which
// does not publish a destination.
var deviceListers = map[string]func(*contracts.ClientOptions) ([]contracts.DeviceInfo, error){
	"darwin":  mididarwin.ListDevices,
	"linux":   midilinux.ListDevices,
	"windows": midiwindows.ListDevices,
}

// NewSource initializes the MIDI source for the current operating system,
// returning ErrUnsupportedOS if there is no backend for it.
func NewSource(opts *contracts.ClientOptions) (contracts.MIDISource, error) {
	return newSourceFor(runtime.GOOS, opts)
}

func newSourceFor(goos string, opts *contracts.ClientOptions) (contracts.MIDISource, error) {
	if initializer, exists := sourceInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}

func listDevicesFor(goos string, opts *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	if lister, exists := deviceListers[goos]; exists {
		return lister(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}
