package util

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the passage of time so that polling and think-time code can be tested
// without actually sleeping.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

type DefaultClock struct{}

func (c *DefaultClock) Now() time.Time { return time.Now() }

func (c *DefaultClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DummyClock never blocks. Sleep advances T and records the requested duration.
type DummyClock struct {
	T time.Time

	mu     sync.Mutex
	sleeps []time.Duration
}

func (c *DummyClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.T
}

func (c *DummyClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.T = c.T.Add(d)
	return nil
}

// Sleeps returns a copy of every duration passed to Sleep so far.
func (c *DummyClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration{}, c.sleeps...)
}
