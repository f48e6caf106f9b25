package clock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gardiner/stepsequencer/internal/logger"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"go.uber.org/zap"
)

// DefaultPollInterval is the pause after each drained batch: a tenth of a
// clock pulse at 120 BPM expressed as 120/60/24/10 seconds.
const DefaultPollInterval = time.Second * 120 / 60 / 24 / 10

// Receiver delivers the bytes that arrived since the previous call.
type Receiver interface {
	Receive() ([]byte, error)
}

// Sink renders trace events.
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) error {
	return f(ev)
}

type runConfig struct {
	interval    time.Duration
	logger      contracts.Logger
	interpreter *Interpreter
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithPollInterval overrides DefaultPollInterval. Zero polls without pausing.
func WithPollInterval(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.interval = d
	}
}

// WithRunLogger sets the logger for run loop diagnostics.
func WithRunLogger(l contracts.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithInterpreter runs with an existing interpreter so its state can be
// inspected afterwards.
func WithInterpreter(it *Interpreter) RunOption {
	return func(c *runConfig) {
		c.interpreter = it
	}
}

// Run polls src, feeds every received byte through the interpreter in
// order and forwards each event to sink, pausing for the poll interval
// after every batch. It returns nil when src reports
// contracts.ErrSourceClosed, ctx.Err() when ctx is done, and any other
// receive or sink error wrapped.
func Run(ctx context.Context, src Receiver, sink Sink, opts ...RunOption) error {
	cfg := runConfig{interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewFromZap(zap.NewNop())
	}
	if cfg.interpreter == nil {
		cfg.interpreter = NewInterpreter()
	}
	log := cfg.logger
	it := cfg.interpreter

	log.Info("Clock monitor started", log.Field().Duration("pollInterval", cfg.interval))
	defer log.Info("Clock monitor stopped")

	events := make([]Event, 0, 2)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := src.Receive()
		if errors.Is(err, contracts.ErrSourceClosed) {
			return nil
		}
		if err != nil {
			log.Error("Failed to receive MIDI bytes", log.Field().Error("error", err))
			return fmt.Errorf("receive: %w", err)
		}

		for _, b := range data {
			events = it.AppendEvents(events[:0], b)
			for _, ev := range events {
				switch ev.Kind {
				case EventStart, EventStop:
					log.Debug("Transport event", log.Field().String("event", ev.Kind.String()))
				case EventUnknown:
					log.Debug("Unhandled MIDI byte",
						log.Field().Uint8("byte", b),
						log.Field().String("message", MessageName(b)))
				}
				if err := sink.Emit(ev); err != nil {
					return fmt.Errorf("emit %s: %w", ev, err)
				}
			}
		}

		if cfg.interval <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.interval):
		}
	}
}
