package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// RetryPolicy controls how often a provider call is repeated after a
// transport failure.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// BaseDelay is scaled by 2^attempt and a jitter factor in [0.5, 1).
	BaseDelay time.Duration
}

// NoRetry makes exactly one call.
var NoRetry = RetryPolicy{}

// Attempt performs one provider call. attempt is zero-based.
type Attempt func(ctx context.Context, attempt int) (*domain.ScriptResponse, error)

// CallWithRetry runs call, repeating it while it fails with a retryable error
// and the policy allows. Errors that are not retryable are returned as is.
func CallWithRetry(
	ctx context.Context,
	logger *slog.Logger,
	policy RetryPolicy,
	call Attempt,
) (*domain.ScriptResponse, error) {
	maxRetries := max(policy.MaxRetries, 0)

	for attempt := 0; ; attempt++ {
		resp, err := call(ctx, attempt)
		if err == nil {
			if attempt > 0 {
				logger.InfoContext(ctx, "generation succeeded after retry", "attempt", attempt+1)
			}
			return resp, nil
		}

		if !IsRetryable(err) {
			return nil, err
		}

		if attempt >= maxRetries {
			if maxRetries > 0 {
				logger.WarnContext(ctx, "maximum retry attempts reached", "max_retries", maxRetries)
			}
			return nil, err
		}

		delay := backoff(policy.BaseDelay, attempt)
		logger.InfoContext(ctx, "retrying generation after delay",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrTransportFailure, ctx.Err())
		}
	}
}

// backoff returns base * 2^attempt * (0.5 + rand(0, 0.5)).
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	exp := float64(base) * math.Pow(2, float64(attempt))
	return time.Duration(exp * (0.5 + rand.Float64()*0.5))
}
