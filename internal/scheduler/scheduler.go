package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CycleFunc runs one full poll cycle.
type CycleFunc func(ctx context.Context) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	StartupDelay time.Duration
}

// Scheduler drives the poll loop: one cycle, a fixed sleep, repeat.
// There is no backoff, no jitter, and no overlap — a slow cycle simply
// delays the next one.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, alternating between running a cycle and sleeping for the
// configured interval, until ctx is cancelled. A cycle error is logged
// and the loop continues; the next cycle supersedes the failed one.
// Cancellation is only observed while idle, so an in-flight submission
// always runs to completion.
func (s *Scheduler) Run(ctx context.Context, cycle CycleFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := s.sleep(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	for {
		started := time.Now()
		if err := cycle(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("poll cycle failed")
		} else {
			s.logger.Debug().Dur("elapsed", time.Since(started)).Msg("poll cycle complete")
		}

		if err := s.sleep(ctx, s.opts.Interval); err != nil {
			return err
		}
	}
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
