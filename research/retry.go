package research

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff and
// jitter between attempts, honoring context cancellation while waiting.
func withRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDelay(attempt)):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// backoffDelay doubles per attempt from one second, capped at thirty, with
// 25% jitter to keep retrying clients from synchronizing.
func backoffDelay(attempt int) time.Duration {
	delay := float64(time.Second) * math.Pow(2, float64(attempt-1))
	if limit := float64(30 * time.Second); delay > limit {
		delay = limit
	}
	delay += (rand.Float64()*2 - 1) * delay * 0.25
	return time.Duration(delay)
}
