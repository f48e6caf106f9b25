package midi

import (
	"errors"
	"fmt"

	"github.com/gardiner/stepsequencer/internal/logger"
	"github.com/gardiner/stepsequencer/sdk/contracts"
)

// ErrInvalidOption is returned when an option value cannot be used.
var ErrInvalidOption = errors.New("invalid option")

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if an option holds an unusable value.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.DestinationConfig == nil || options.DestinationConfig.Name == "" {
		options.DestinationConfig = &contracts.DestinationConfig{Name: contracts.DefaultDestinationName}
	}
	if options.InboxSize == 0 {
		options.InboxSize = contracts.DefaultInboxSize
	}

	if options.InboxSize < 0 {
		return contracts.ClientOptions{}, fmt.Errorf("%w: inbox size %d", ErrInvalidOption, options.InboxSize)
	}
	if options.DeviceID < 0 {
		return contracts.ClientOptions{}, fmt.Errorf("%w: device id %d", ErrInvalidOption, options.DeviceID)
	}

	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
