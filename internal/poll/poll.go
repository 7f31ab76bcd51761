// Package poll decides when a connection reloads shared state. The policy is
// a pure function; the Scheduler turns it into a non-blocking refresh signal
// so the cadence never blocks a request handler.
package poll

import (
	"context"
	"time"
)

// ShouldReload reports whether enough time has elapsed since the last poll
// for the configured cadence. A successful post resets the poll clock
// elsewhere, which makes this trigger immediately on the next check.
func ShouldReload(now, lastPoll time.Time, interval time.Duration) bool {
	return now.Sub(lastPoll) >= interval
}

// IntervalFunc yields the current cadence. It is consulted before every
// cycle, so a changed AdminSettings interval takes effect on the next cycle
// without any notification machinery.
type IntervalFunc func(ctx context.Context) time.Duration

// Scheduler emits refresh ticks at the configured cadence over a channel.
// It replaces the original trailing wait-then-reload blocking loop:
// consumers select on the channel and stay cancellable through the context.
type Scheduler struct {
	interval IntervalFunc
}

func NewScheduler(interval IntervalFunc) *Scheduler {
	return &Scheduler{interval: interval}
}

// Run starts the cadence loop and returns the tick channel. The channel is
// closed when ctx is cancelled. A tick is dropped rather than queued when
// the consumer is still busy with the previous reload.
func (s *Scheduler) Run(ctx context.Context) <-chan time.Time {
	ch := make(chan time.Time, 1)

	go func() {
		defer close(ch)
		for {
			d := s.interval(ctx)
			if d <= 0 {
				d = time.Second
			}

			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case t := <-timer.C:
				select {
				case ch <- t:
				default:
				}
			}
		}
	}()

	return ch
}
