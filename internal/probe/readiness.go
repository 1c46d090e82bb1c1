package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/edgecheck/internal/domain"
)

// ReadinessWaiter polls a target until it answers HTTP at all. The status
// code does not matter; a response means the server is accepting connections.
type ReadinessWaiter struct {
	Client  HTTPDoer
	Policy  WaitPolicy
	Timeout time.Duration // per attempt
	Sleeper Sleeper
	Logger  *zap.Logger
}

// WaitReady returns true on the first attempt that gets a response and false
// once Policy.MaxAttempts attempts were refused or timed out. Any other
// transport error is returned wrapped in ErrFatal.
func (w *ReadinessWaiter) WaitReady(ctx context.Context, target domain.ProbeTarget) (bool, error) {
	attempts := w.Policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleeper := w.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	url := target.URL()

	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		err := w.attempt(ctx, url)
		if err == nil {
			log.Info("readiness_ready", zap.String("url", url), zap.Int("attempt", i), zap.Int("max_attempts", attempts))
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if !notReady(err) {
			log.Error("readiness_fatal", zap.String("url", url), zap.Int("attempt", i), zap.Error(err))
			return false, fmt.Errorf("%w: %s: %w", ErrFatal, url, err)
		}
		log.Info("readiness_waiting",
			zap.String("url", url),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i < attempts {
			if err := sleeper.Sleep(ctx, w.Policy.Delay()); err != nil {
				return false, err
			}
		}
	}
	log.Warn("readiness_exhausted", zap.String("url", url), zap.Int("attempts", attempts))
	return false, nil
}

func (w *ReadinessWaiter) attempt(ctx context.Context, url string) error {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
