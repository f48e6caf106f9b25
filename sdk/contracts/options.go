package contracts

// DefaultDestinationName is the name of the virtual destination when none is configured.
const DefaultDestinationName = "simple core midi destination"

// DefaultInboxSize bounds the bytes a source holds between two polls.
const DefaultInboxSize = 4096

// DestinationConfig configures the virtual MIDI destination.
type DestinationConfig struct {
	Name string // Name advertised to other MIDI software.
}

// ClientOptions defines the configuration of a MIDI source.
type ClientOptions struct {
	Logger            Logger             // Logger for lifecycle events and errors.
	LogLevel          LogLevel           // Level of logging to use.
	LogFilePath       string             // File path for logging if file logging is enabled.
	DestinationConfig *DestinationConfig // Virtual destination settings.
	DeviceID          int                // Input device index for backends without virtual ports.
	InboxSize         int                // Maximum number of undrained bytes.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI source.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI source.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log records to the given file instead of stderr.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithDestinationConfig sets the virtual destination configuration.
func WithDestinationConfig(config DestinationConfig) Option {
	return func(opts *ClientOptions) {
		opts.DestinationConfig = &config
	}
}

// WithDeviceID selects the input device on backends that cannot create a
// virtual destination.
func WithDeviceID(id int) Option {
	return func(opts *ClientOptions) {
		opts.DeviceID = id
	}
}

// WithInboxSize bounds the number of bytes buffered between polls.
func WithInboxSize(size int) Option {
	return func(opts *ClientOptions) {
		opts.InboxSize = size
	}
}
