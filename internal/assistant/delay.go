package assistant

import (
	"context"
	"time"
)

// DefaultDelay is the cosmetic thinking pause before a reply.
const DefaultDelay = time.Second

// Delayer pauses before a reply is produced.
type Delayer interface {
	Wait(ctx context.Context) error
}

// SleepDelayer waits for a fixed duration or until ctx is done.
type SleepDelayer struct {
	Duration time.Duration
}

var sleep = time.Sleep

func (d SleepDelayer) Wait(ctx context.Context) error {
	if d.Duration <= 0 || ctx.Err() != nil {
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d.Duration)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// NoDelay replies immediately.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
