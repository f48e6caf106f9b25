package clock

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gardiner/stepsequencer/internal/logger"
	"github.com/gardiner/stepsequencer/sdk/contracts"
	"go.uber.org/zap/zaptest"
)

// fakeSource replays fixed batches and then reports the source closed.
type fakeSource struct {
	batches [][]byte
	calls   int
	err     error
}

func (f *fakeSource) Receive() ([]byte, error) {
	f.calls++
	if len(f.batches) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, contracts.ErrSourceClosed
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Emit(ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func TestRunDrainsBatchesInOrder(t *testing.T) {
	src := &fakeSource{batches: [][]byte{
		{Start},
		nil,
		{TimingClock, TimingClock},
		{},
		{Stop, 60},
	}}
	sink := &recordingSink{}
	it := NewInterpreter()

	err := Run(context.Background(), src, sink,
		WithPollInterval(0),
		WithInterpreter(it),
		WithRunLogger(logger.NewFromZap(zaptest.NewLogger(t))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Event{
		{Kind: EventStart},
		{Kind: EventPulse, Value: 1},
		{Kind: EventPulse, Value: 2},
		{Kind: EventStop},
		{Kind: EventUnknown, Value: 60},
	}
	if !reflect.DeepEqual(sink.events, want) {
		t.Errorf("expected %v, got %v", want, sink.events)
	}
	if it.State() != (State{}) {
		t.Errorf("expected counters reset, got %+v", it.State())
	}
	if src.calls != 6 {
		t.Errorf("expected 6 receive calls, got %d", src.calls)
	}
}

func TestRunStateSpansBatches(t *testing.T) {
	first := make([]byte, 50)
	second := make([]byte, 46)
	for i := range first {
		first[i] = TimingClock
	}
	for i := range second {
		second[i] = TimingClock
	}

	sink := &recordingSink{}
	it := NewInterpreter()
	src := &fakeSource{batches: [][]byte{first, second}}
	if err := Run(context.Background(), src, sink, WithPollInterval(0), WithInterpreter(it)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := sink.events[len(sink.events)-1]
	if last != (Event{Kind: EventBeat, Value: 1}) {
		t.Errorf("expected beat after 96 pulses split over two batches, got %v", last)
	}
	if want := (State{Pulses: 96, Beats: 1}); it.State() != want {
		t.Errorf("expected state %+v, got %+v", want, it.State())
	}
}

func TestRunReceiveError(t *testing.T) {
	boom := errors.New("destination vanished")
	src := &fakeSource{batches: [][]byte{{Start}}, err: boom}

	err := Run(context.Background(), src, &recordingSink{}, WithPollInterval(0))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped receive error, got %v", err)
	}
}

func TestRunSinkError(t *testing.T) {
	closed := errors.New("stdout closed")
	src := &fakeSource{batches: [][]byte{{TimingClock, TimingClock}}}
	var emitted int
	sink := SinkFunc(func(Event) error {
		emitted++
		return closed
	})

	err := Run(context.Background(), src, sink, WithPollInterval(0))
	if !errors.Is(err, closed) {
		t.Errorf("expected wrapped sink error, got %v", err)
	}
	if emitted != 1 {
		t.Errorf("expected loop to stop after first failed emit, got %d emits", emitted)
	}
}

// idleSource never delivers anything and never closes.
type idleSource struct{}

func (idleSource) Receive() ([]byte, error) {
	return nil, nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Run(ctx, idleSource{}, &recordingSink{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRunPausesBetweenPolls(t *testing.T) {
	src := &fakeSource{batches: [][]byte{{}, {}, {}}}
	interval := 5 * time.Millisecond

	started := time.Now()
	if err := Run(context.Background(), src, &recordingSink{}, WithPollInterval(interval)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(started); elapsed < 3*interval {
		t.Errorf("expected at least %v between three polls, took %v", 3*interval, elapsed)
	}
}

func TestDefaultPollInterval(t *testing.T) {
	wantNanos := float64(time.Second) * 120.0 / 60 / 24 / 10
	want := time.Duration(wantNanos)
	if diff := DefaultPollInterval - want; diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("expected poll interval near %v, got %v", want, DefaultPollInterval)
	}
}
