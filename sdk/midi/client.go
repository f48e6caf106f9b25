package midi

import (
	"runtime"

	"github.com/gardiner/stepsequencer/sdk/contracts"
)

// NewMIDISource creates the MIDI source for the current platform with the
// specified options, applying defaults for anything left unset.
//
// opts ...contracts.Option: A variadic list of option functions to customize the source configuration.
//
// Returns:
//   - contracts.MIDISource: The source, already receiving bytes.
//   - error: An error, if any occurred during the creation of the source.
func NewMIDISource(opts ...contracts.Option) (contracts.MIDISource, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	source, err := NewSource(&options)
	if err != nil {
		return nil, err
	}

	return source, nil
}

// ListDevices lists the MIDI inputs of the current platform without
// creating a source, so the listing never contains this program's own port.
func ListDevices(opts ...contracts.Option) ([]contracts.DeviceInfo, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	return listDevicesFor(runtime.GOOS, &options)
}
