package probe

import (
	"context"
	"math/rand"
	"time"
)

// WaitPolicy bounds a retry loop: how many attempts and how long to pause
// between them.
type WaitPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Jitter      time.Duration // upper bound of a random extra pause; 0 disables
}

func (p WaitPolicy) Delay() time.Duration {
	if p.Jitter <= 0 {
		return p.Interval
	}
	return p.Interval + time.Duration(rand.Int63n(int64(p.Jitter)))
}

// Sleeper pauses the run. Tests swap in a fake that records instead of sleeping.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
