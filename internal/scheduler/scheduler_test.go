package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestRunSurvivesCycleErrors(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, noopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cycles atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(ctx context.Context) error {
			if cycles.Add(1) >= 3 {
				cancel()
			}
			return errors.New("submission failed")
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	if got := cycles.Load(); got < 3 {
		t.Fatalf("expected the loop to keep running past failed cycles, got %d", got)
	}
}

func TestRunStopsOnlyAtIdleBoundary(t *testing.T) {
	s := New(Options{Interval: time.Hour}, noopLogger())

	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(cycleCtx context.Context) error {
			// Cancel mid-cycle; the cycle context must stay live so an
			// in-flight submission is never abandoned.
			cancel()
			if cycleCtx.Err() != nil {
				t.Error("cycle context cancelled while cycle in flight")
			}
			close(finished)
			return nil
		})
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle never ran")
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not honor cancellation at the idle boundary")
	}
}

func TestRunHonorsStartupDelayCancellation(t *testing.T) {
	s := New(Options{Interval: time.Minute, StartupDelay: time.Hour}, noopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, func(ctx context.Context) error {
		t.Error("cycle must not run when cancelled during startup delay")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive interval")
		}
	}()
	New(Options{}, noopLogger())
}
