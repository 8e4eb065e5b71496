package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy wraps an operation with bounded exponential backoff. Only
// transient failures are retried; fatal errors and budget refusals
// propagate immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *slog.Logger
}

// DefaultRetryPolicy matches the tool's defaults: three attempts, one
// second base delay capped at eight seconds.
func DefaultRetryPolicy(logger *slog.Logger) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    8 * time.Second,
		Logger:      logger,
	}
}

// Do runs fn up to MaxAttempts times. fn must include the Governor's Admit
// call so spacing is accounted exactly once per actual attempt. The last
// error is returned after exhaustion; callers map a remaining transient
// error to an exhausted-retries outcome.
func (p *RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.backoff(attempt)
		logger.Warn("transient failure, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", lastErr.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, p.MaxAttempts, lastErr)
}

// backoff doubles the base delay per attempt, caps it and adds up to 25%
// jitter.
func (p *RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}
