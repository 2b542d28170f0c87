package origin

import (
	"context"
	"time"
)

// BackoffPolicy controls retries for origin calls. The base delay doubles on
// each attempt. Retryable decides whether an error is worth retrying;
// validation-class rejections never are.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// DefaultPolicy retries timeout/network/server-class failures
func DefaultPolicy(maxAttempts int, baseDelay time.Duration) BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Retryable:   IsUnavailable,
	}
}

// Do runs fn under the policy, sleeping between attempts. It returns the
// last error once attempts are exhausted or a non-retryable error occurs.
func (p BackoffPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
