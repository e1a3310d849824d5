package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alorle/iptv-curator/internal/run"
)

type countingCurator struct {
	calls atomic.Int32
	err   error
}

func (c *countingCurator) Run(ctx context.Context) (run.Record, error) {
	c.calls.Add(1)
	return run.Record{}, c.err
}

func TestRunScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	curator := &countingCurator{}
	s := NewRunScheduler(curator, 20*time.Millisecond, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}

	if n := curator.calls.Load(); n < 2 {
		t.Errorf("expected an immediate run plus ticks, got %d runs", n)
	}
}

func TestRunScheduler_KeepsGoingAfterFailure(t *testing.T) {
	curator := &countingCurator{err: errors.New("no sources")}
	s := NewRunScheduler(curator, 10*time.Millisecond, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	if n := curator.calls.Load(); n < 2 {
		t.Errorf("failed runs should not stop the scheduler, got %d runs", n)
	}
}
