// Command clockmon publishes a virtual MIDI input and prints a trace of the
// MIDI clock routed into it: GO and STOP for transport, a dot per clock
// pulse and BEAT n every four quarter notes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gardiner/stepsequencer/internal/clock"
	"github.com/gardiner/stepsequencer/internal/logger"
	"github.com/gardiner/stepsequencer/internal/trace"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"github.com/gardiner/stepsequencer/sdk/midi"
)

type config struct {
	name     string
	deviceID int
	level    contracts.LogLevel
	logFile  string
	list     bool
}

// environment holds the platform hooks run depends on.
type environment struct {
	newSource   func(...contracts.Option) (contracts.MIDISource, error)
	listDevices func(...contracts.Option) ([]contracts.DeviceInfo, error)
	stdout      io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := environment{
		newSource:   midi.NewMIDISource,
		listDevices: midi.ListDevices,
		stdout:      os.Stdout,
	}
	err := run(ctx, os.Args[1:], env)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, env environment) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	log := logger.NewZapLogger()
	defer log.Sync()

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(cfg.level),
		contracts.WithLogFile(cfg.logFile),
		contracts.WithDestinationConfig(contracts.DestinationConfig{Name: cfg.name}),
		contracts.WithDeviceID(cfg.deviceID),
	}

	if cfg.list {
		return printDevices(env.listDevices, env.stdout, opts...)
	}

	source, err := env.newSource(opts...)
	if err != nil {
		return fmt.Errorf("failed to open MIDI source: %w", err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Error("Failed to close MIDI source", log.Field().Error("error", err))
		}
	}()

	log.Info("Listening for MIDI clock", log.Field().String("destination", source.Name()))
	err = clock.Run(ctx, source, trace.NewConsole(env.stdout), clock.WithRunLogger(log))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func parseFlags(args []string) (config, error) {
	var cfg config
	var level string

	fs := flag.NewFlagSet("clockmon", flag.ContinueOnError)
	fs.StringVar(&cfg.name, "name", contracts.DefaultDestinationName, "name of the virtual MIDI destination")
	fs.IntVar(&cfg.deviceID, "device", 0, "input device index on platforms without virtual ports")
	fs.StringVar(&level, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.logFile, "log-file", "", "write logs to this file instead of stderr")
	fs.BoolVar(&cfg.list, "list", false, "list MIDI inputs and exit without publishing a destination")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	lvl, err := parseLogLevel(level)
	if err != nil {
		return config{}, err
	}
	cfg.level = lvl
	return cfg, nil
}

func parseLogLevel(level string) (contracts.LogLevel, error) {
	switch level {
	case "debug":
		return contracts.DebugLevel, nil
	case "info":
		return contracts.InfoLevel, nil
	case "warn":
		return contracts.WarnLevel, nil
	case "error":
		return contracts.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func printDevices(list func(...contracts.Option) ([]contracts.DeviceInfo, error), w io.Writer, opts ...contracts.Option) error {
	devices, err := list(opts...)
	if err != nil {
		return fmt.Errorf("failed to list MIDI devices: %w", err)
	}
	for _, d := range devices {
		fmt.Fprintf(w, "%d\t%s", d.Index, d.Name)
		if d.Manufacturer != "" {
			fmt.Fprintf(w, "\t%s", d.Manufacturer)
		}
		fmt.Fprintln(w)
	}
	return nil
}
