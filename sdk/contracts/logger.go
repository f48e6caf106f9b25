package contracts

import "time"

// LogLevel is the minimum severity a Logger emits.
type LogLevel int

const (
	// InfoLevel reports source lifecycle and run loop progress.
	InfoLevel LogLevel = iota
	// DebugLevel adds per-transport-event diagnostics.
	DebugLevel
	// ErrorLevel reports failures of the MIDI backend.
	ErrorLevel
	// WarnLevel reports recoverable problems such as dropped bytes.
	WarnLevel
	// FatalLevel reports errors that end the process.
	FatalLevel
)

// LogDestination specifies where log records are written.
type LogDestination string

const (
	// ConsoleLog writes log records to stderr, keeping stdout free for the clock trace.
	ConsoleLog LogDestination = "console"
	// FileLog writes log records to a file.
	FileLog LogDestination = "file"
)

// Field is a typed key/value pair attached to a log record.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Duration(key string, val time.Duration) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint8(key string, val uint8) Field
}

// Logger writes leveled, structured diagnostics.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)
	Sync() error
}
