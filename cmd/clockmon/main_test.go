package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gardiner/stepsequencer/sdk/contracts"
	"github.com/gardiner/stepsequencer/sdk/midi"
)

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.name != contracts.DefaultDestinationName {
			t.Errorf("expected default name, got %q", cfg.name)
		}
		if cfg.level != contracts.InfoLevel {
			t.Errorf("expected info level, got %d", cfg.level)
		}
		if cfg.list {
			t.Error("list should default to false")
		}
	})

	t.Run("all flags", func(t *testing.T) {
		cfg, err := parseFlags([]string{"-name", "clock in", "-device", "2", "-log-level", "debug", "-log-file", "/tmp/clock.log", "-list"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := config{name: "clock in", deviceID: 2, level: contracts.DebugLevel, logFile: "/tmp/clock.log", list: true}
		if cfg != want {
			t.Errorf("expected %+v, got %+v", want, cfg)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, err := parseFlags([]string{"-log-level", "loud"}); err == nil {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("positional arguments", func(t *testing.T) {
		if _, err := parseFlags([]string{"extra"}); err == nil {
			t.Error("expected error for positional arguments")
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  contracts.LogLevel
	}{
		{"debug", contracts.DebugLevel},
		{"info", contracts.InfoLevel},
		{"warn", contracts.WarnLevel},
		{"error", contracts.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := parseLogLevel(tt.level)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

type fakeSource struct {
	batches [][]byte
	devices []contracts.DeviceInfo
	err     error
	closed  int
}

func (s *fakeSource) Receive() ([]byte, error) {
	if len(s.batches) == 0 {
		return nil, contracts.ErrSourceClosed
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *fakeSource) ListDevices() ([]contracts.DeviceInfo, error) { return s.devices, s.err }
func (s *fakeSource) Name() string                                 { return "test" }
func (s *fakeSource) Close() error                                 { s.closed++; return nil }

func testEnvironment(t *testing.T, src *fakeSource, stdout *bytes.Buffer) environment {
	return environment{
		newSource: func(...contracts.Option) (contracts.MIDISource, error) {
			return src, nil
		},
		listDevices: func(...contracts.Option) ([]contracts.DeviceInfo, error) {
			t.Error("listDevices must not be called")
			return nil, nil
		},
		stdout: stdout,
	}
}

func TestRunPrintsTrace(t *testing.T) {
	var stdout bytes.Buffer
	src := &fakeSource{batches: [][]byte{{250, 248}, {}, {248, 60, 252}}}

	if err := run(context.Background(), nil, testEnvironment(t, src, &stdout)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "GO\n..60 STOP\n"; stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
	if src.closed != 1 {
		t.Errorf("expected source closed once, got %d", src.closed)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	src := &fakeSource{batches: [][]byte{{250}}}
	if err := run(ctx, nil, testEnvironment(t, src, &stdout)); err != nil {
		t.Errorf("expected cancellation to end cleanly, got %v", err)
	}
	if src.closed != 1 {
		t.Errorf("expected source closed once, got %d", src.closed)
	}
}

func TestRunSourceError(t *testing.T) {
	env := environment{
		newSource: func(...contracts.Option) (contracts.MIDISource, error) {
			return nil, fmt.Errorf("%w: plan9", midi.ErrUnsupportedOS)
		},
		stdout: &bytes.Buffer{},
	}

	err := run(context.Background(), nil, env)
	if !errors.Is(err, midi.ErrUnsupportedOS) {
		t.Errorf("expected ErrUnsupportedOS, got %v", err)
	}
}

func TestRunInvalidFlags(t *testing.T) {
	env := environment{
		newSource: func(...contracts.Option) (contracts.MIDISource, error) {
			t.Error("newSource must not be called")
			return nil, nil
		},
		stdout: &bytes.Buffer{},
	}

	if err := run(context.Background(), []string{"-log-level", "loud"}, env); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestRunListDoesNotOpenSource(t *testing.T) {
	var stdout bytes.Buffer
	var options contracts.ClientOptions
	env := environment{
		newSource: func(...contracts.Option) (contracts.MIDISource, error) {
			t.Error("listing must not publish a destination")
			return nil, nil
		},
		listDevices: func(opts ...contracts.Option) ([]contracts.DeviceInfo, error) {
			for _, opt := range opts {
				opt(&options)
			}
			return []contracts.DeviceInfo{{Index: 0, Name: "Midi Through"}}, nil
		},
		stdout: &stdout,
	}

	if err := run(context.Background(), []string{"-list", "-name", "clock in"}, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "0\tMidi Through\n"; stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
	if options.DestinationConfig == nil || options.DestinationConfig.Name != "clock in" {
		t.Errorf("expected options to carry the destination name, got %+v", options.DestinationConfig)
	}
}

func TestPrintDevices(t *testing.T) {
	var buf bytes.Buffer
	list := func(...contracts.Option) ([]contracts.DeviceInfo, error) {
		return []contracts.DeviceInfo{
			{Index: 0, Name: "IAC Bus 1", Manufacturer: "Apple Inc."},
			{Index: 1, Name: "Midi Through"},
		}, nil
	}

	if err := printDevices(list, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0\tIAC Bus 1\tApple Inc.\n1\tMidi Through\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	boom := errors.New("no devices")
	failing := func(...contracts.Option) ([]contracts.DeviceInfo, error) { return nil, boom }
	if err := printDevices(failing, &buf); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
