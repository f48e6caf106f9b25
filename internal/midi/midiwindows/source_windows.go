//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gardiner/stepsequencer/internal/midi/inbox"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Error definitions for the winmm backend.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
)

// HMIDIIN is a winmm MIDI input handle.
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// DeviceSource reads an existing MIDI input device. winmm cannot publish
// virtual ports, so clock has to be routed into this device (for example
// through a loopback driver) by the sending application.
type DeviceSource struct {
	logger   contracts.Logger
	deviceID int
	name     string
	handle   HMIDIIN
	callback uintptr
	inbox    *inbox.Inbox
	mu       sync.Mutex
	open     bool
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// NewMIDISource opens the configured input device and starts capture.
func NewMIDISource(options *contracts.ClientOptions) (contracts.MIDISource, error) {
	s := &DeviceSource{
		logger:   options.Logger,
		deviceID: options.DeviceID,
		name:     options.DestinationConfig.Name,
		inbox:    inbox.New(options.InboxSize),
	}

	devices, err := listInputs(s.logger)
	if err != nil {
		return nil, err
	}
	if s.deviceID < 0 || s.deviceID >= len(devices) {
		s.logger.Error(ErrInvalidMIDIDevice.Error(), s.logger.Field().Int("deviceID", s.deviceID))
		return nil, fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, s.deviceID)
	}
	s.name = devices[s.deviceID].Name

	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// ListDevices lists the available MIDI input devices
func (s *DeviceSource) ListDevices() ([]contracts.DeviceInfo, error) {
	return listInputs(s.logger)
}

// ListDevices lists the available MIDI input devices without opening one.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	return listInputs(options.Logger)
}

func listInputs(logger contracts.Logger) ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			logger.Warn("Failed to get information for MIDI device", logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Index:        int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

func (s *DeviceSource) start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callback = windows.NewCallback(midiInCallback)
	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&s.handle)),
		uintptr(s.deviceID),
		s.callback,
		uintptr(unsafe.Pointer(s)),
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		s.logger.Error("Failed to open MIDI device",
			s.logger.Field().Int("deviceID", s.deviceID),
			s.logger.Field().Error("error", err))
		return fmt.Errorf("%w %d: %v", ErrMIDIConnectionError, s.deviceID, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(s.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(s.handle))
		s.handle = 0
		return fmt.Errorf("%w: failed to start capture: %v", ErrMIDIConnectionError, err)
	}

	s.open = true
	s.logger.Info("MIDI device connected",
		s.logger.Field().Int("deviceID", s.deviceID),
		s.logger.Field().String("deviceName", s.name))
	return nil
}

// midiInCallback runs on a winmm thread and queues every short message.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	s := (*DeviceSource)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case MIM_OPEN:
		s.logger.Debug("MIDI device opened")
	case MIM_CLOSE:
		s.logger.Debug("MIDI device closed")
	case MIM_DATA, MIM_MOREDATA:
		if dropped := s.inbox.Push(inbox.UnpackShortMessage(uint32(dwParam1))); dropped > 0 {
			s.logger.Warn("Inbox full; dropping MIDI bytes", s.logger.Field().Int("dropped", dropped))
		}
	case MIM_ERROR, MIM_LONGERROR:
		s.logger.Error("MIDI error", s.logger.Field().Int("message", int(wMsg)))
	default:
		s.logger.Warn("Unknown MIDI message", s.logger.Field().Int("message", int(wMsg)))
	}

	return 0
}

// Receive drains the bytes received since the last call.
func (s *DeviceSource) Receive() ([]byte, error) {
	data, err := s.inbox.Drain()
	if errors.Is(err, inbox.ErrClosed) {
		return nil, contracts.ErrSourceClosed
	}
	return data, err
}

// Name returns the name of the opened device.
func (s *DeviceSource) Name() string {
	return s.name
}

// Close stops capture and releases the device.
func (s *DeviceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	defer s.inbox.Close()

	r1, _, err := procMidiInStop.Call(uintptr(s.handle))
	if r1 != 0 {
		s.logger.Error("Failed to stop MIDI capture", s.logger.Field().Error("error", err))
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}

	r1, _, err = procMidiInClose.Call(uintptr(s.handle))
	if r1 != 0 {
		s.logger.Error("Failed to close MIDI device", s.logger.Field().Error("error", err))
		return fmt.Errorf("failed to close MIDI device: %w", err)
	}

	s.handle = 0
	s.logger.Info("MIDI capture stopped and device closed")
	return nil
}
