//go:build linux && cgo
// +build linux,cgo

package midilinux

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gardiner/stepsequencer/internal/midi/inbox"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Error definitions for the ALSA backend.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrCreateDriver      = errors.New("error creating rtmidi driver")
	ErrCreateDestination = errors.New("error creating virtual input port")
)

// VirtualInSource is an ALSA sequencer virtual input port opened through
// rtmidi. Other applications connect their clock output to it.
type VirtualInSource struct {
	logger    contracts.Logger
	name      string
	drv       *rtmididrv.Driver
	in        drivers.In
	stop      func()
	inbox     *inbox.Inbox
	closeOnce sync.Once
	closeErr  error
}

// NewMIDISource opens a virtual input port and starts listening on it.
func NewMIDISource(options *contracts.ClientOptions) (contracts.MIDISource, error) {
	name := options.DestinationConfig.Name

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDriver, err)
	}
	options.Logger.Info("MIDI driver successfully created")

	in, err := drv.OpenVirtualIn(name)
	if err != nil {
		drv.Close()
		options.Logger.Error(ErrCreateDestination.Error(), options.Logger.Field().Error("error", err))
		return nil, fmt.Errorf("%w: %v", ErrCreateDestination, err)
	}

	s := &VirtualInSource{
		logger: options.Logger,
		name:   name,
		drv:    drv,
		in:     in,
		inbox:  inbox.New(options.InboxSize),
	}

	// rtmidi filters timing messages unless TimeCode is requested, and 0xF8
	// belongs to that group.
	s.stop, err = in.Listen(s.handleMessage, drivers.ListenConfig{
		TimeCode:    true,
		ActiveSense: true,
		OnErr: func(err error) {
			s.logger.Error("MIDI listen error", s.logger.Field().Error("error", err))
		},
	})
	if err != nil {
		in.Close()
		drv.Close()
		return nil, fmt.Errorf("%w: %v", ErrCreateDestination, err)
	}

	options.Logger.Info("Virtual MIDI destination created",
		options.Logger.Field().String("destination", name))
	return s, nil
}

func (s *VirtualInSource) handleMessage(msg []byte, milliseconds int32) {
	if dropped := s.inbox.Push(msg); dropped > 0 {
		s.logger.Warn("Inbox full; dropping MIDI bytes",
			s.logger.Field().Int("dropped", dropped),
			s.logger.Field().String("message", midi.Message(msg).String()))
	}
}

// Receive drains the bytes received since the last call.
func (s *VirtualInSource) Receive() ([]byte, error) {
	data, err := s.inbox.Drain()
	if errors.Is(err, inbox.ErrClosed) {
		return nil, contracts.ErrSourceClosed
	}
	return data, err
}

// ListDevices lists the ALSA input ports, including the virtual one.
func (s *VirtualInSource) ListDevices() ([]contracts.DeviceInfo, error) {
	return listIns(s.drv, s.logger)
}

// ListDevices lists the ALSA input ports through a short-lived driver,
// without opening a virtual port.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDriver, err)
	}
	defer drv.Close()

	return listIns(drv, options.Logger)
}

func listIns(drv *rtmididrv.Driver, logger contracts.Logger) ([]contracts.DeviceInfo, error) {
	ins, err := drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			Index:      in.Number(),
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// Name returns the virtual port name.
func (s *VirtualInSource) Name() string {
	return s.name
}

// Close stops listening and releases the port and the driver.
func (s *VirtualInSource) Close() error {
	s.closeOnce.Do(func() {
		if s.stop != nil {
			s.stop()
		}
		s.inbox.Close()
		if err := s.in.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close virtual input: %w", err)
		}
		if err := s.drv.Close(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("failed to close MIDI driver: %w", err)
		}
		s.logger.Info("Virtual MIDI destination closed",
			s.logger.Field().String("destination", s.name),
			s.logger.Field().Uint64("droppedBytes", s.inbox.Dropped()))
	})
	return s.closeErr
}
