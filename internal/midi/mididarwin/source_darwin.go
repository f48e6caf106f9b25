//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gardiner/stepsequencer/internal/midi/inbox"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for the CoreMIDI backend.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrCreateClient      = errors.New("error creating CoreMIDI client")
	ErrCreateDestination = errors.New("error creating virtual destination")
)

// internalDestination releases a CoreMIDI endpoint.
type internalDestination interface {
	Dispose()
}

// DestinationSource is a CoreMIDI virtual destination. Other applications
// see it as a MIDI output they can route clock into; every packet they
// send lands in the inbox until Receive drains it.
type DestinationSource struct {
	logger      contracts.Logger
	name        string
	client      coremidi.Client
	destination internalDestination
	inbox       *inbox.Inbox
	closeOnce   sync.Once
}

// NewMIDISource creates the CoreMIDI client and its virtual destination.
func NewMIDISource(options *contracts.ClientOptions) (contracts.MIDISource, error) {
	name := options.DestinationConfig.Name

	client, err := coremidi.NewClient(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateClient, err)
	}
	options.Logger.Info("MIDI client successfully created")

	s := &DestinationSource{
		logger: options.Logger,
		name:   name,
		client: client,
		inbox:  inbox.New(options.InboxSize),
	}

	destination, err := coremidi.NewDestination(client, name, s.handlePacket)
	if err != nil {
		options.Logger.Error(ErrCreateDestination.Error(), options.Logger.Field().Error("error", err))
		return nil, fmt.Errorf("%w: %v", ErrCreateDestination, err)
	}
	s.destination = destination

	options.Logger.Info("Virtual MIDI destination created",
		options.Logger.Field().String("destination", name))
	return s, nil
}

// handlePacket runs on the destination's reader goroutine for every packet
// sent to the destination.
func (s *DestinationSource) handlePacket(packet coremidi.Packet) {
	if dropped := s.inbox.Push(packet.Data); dropped > 0 {
		s.logger.Warn("Inbox full; dropping MIDI bytes",
			s.logger.Field().Int("dropped", dropped))
	}
}

// Receive drains the bytes received since the last call.
func (s *DestinationSource) Receive() ([]byte, error) {
	data, err := s.inbox.Drain()
	if errors.Is(err, inbox.ErrClosed) {
		return nil, contracts.ErrSourceClosed
	}
	return data, err
}

// ListDevices lists the CoreMIDI sources that could be routed to the destination.
func (s *DestinationSource) ListDevices() ([]contracts.DeviceInfo, error) {
	return listSources(s.logger)
}

// ListDevices lists the CoreMIDI sources without creating a client or a
// destination.
func ListDevices(options *contracts.ClientOptions) ([]contracts.DeviceInfo, error) {
	return listSources(options.Logger)
}

func listSources(logger contracts.Logger) ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Index:        i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// Name returns the destination name.
func (s *DestinationSource) Name() string {
	return s.name
}

// Close removes the destination from CoreMIDI and stops buffering.
func (s *DestinationSource) Close() error {
	s.closeOnce.Do(func() {
		if s.destination != nil {
			s.destination.Dispose()
		}
		s.inbox.Close()
		s.logger.Info("Virtual MIDI destination closed",
			s.logger.Field().String("destination", s.name),
			s.logger.Field().Uint64("droppedBytes", s.inbox.Dropped()))
	})
	return nil
}
