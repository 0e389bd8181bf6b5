// Package retry implements the classified, bounded exponential-backoff
// retry engine consumed by the LLM Request Layer's complete-path calls.
//
// Grounded on the teacher's pkg/internal/retry.Do/calculateDelay, promoted
// out of internal/ since the retry engine is a first-class, independently
// testable component here, and extended with the retryable_status_codes
// set and retry_after_ms integration the teacher's version left as a TODO.
package retry

import (
	"context"
	"math/rand"
	"time"

	sdkerrors "github.com/digitallysavvy/go-ai/pkg/errors"
)

// Config is the retry policy. Defaults match the spec: 3 retries, 100ms
// initial delay, 10s max delay, 2x multiplier, and the classic transient
// HTTP status set.
type Config struct {
	MaxRetries          int
	InitialDelay        time.Duration
	MaxDelay            time.Duration
	BackoffMultiplier   float64
	RetryableStatusCodes map[int]bool
	Jitter              bool

	// ShouldRetry overrides the default classification-based decision when
	// non-nil; returning true retries, false stops.
	ShouldRetry func(error) bool
}

// DefaultConfig returns the spec-default retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
		Jitter:            true,
		RetryableStatusCodes: map[int]bool{
			408: true, 429: true, 500: true, 502: true, 503: true, 504: true,
		},
	}
}

// Func is the operation Do retries.
type Func func(ctx context.Context) (interface{}, error)

// Do invokes fn, retrying per cfg until it succeeds, the context is
// cancelled, or retries are exhausted. The delay for attempt n (0-indexed)
// is min(MaxDelay, InitialDelay * BackoffMultiplier^n), raised to
// RetryAfterMs when the classified error carries one.
func Do(ctx context.Context, cfg Config, fn Func) (interface{}, error) {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries || !shouldRetry(cfg, err) {
			return nil, err
		}

		delay := calculateDelay(attempt, cfg, err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func shouldRetry(cfg Config, err error) bool {
	if cfg.ShouldRetry != nil {
		return cfg.ShouldRetry(err)
	}
	if sdkerrors.IsRetryable(err) {
		return true
	}
	if code, ok := statusCode(err); ok && cfg.RetryableStatusCodes[code] {
		return true
	}
	return false
}

type hasStatusCode interface{ StatusCodeOf() int }

func statusCode(err error) (int, bool) {
	if hs, ok := err.(hasStatusCode); ok {
		return hs.StatusCodeOf(), true
	}
	return 0, false
}

// calculateDelay computes the backoff for attempt n, honoring any
// RetryAfterMs carried on a classified provider error, and applying
// +/-12.5% jitter when enabled.
func calculateDelay(attempt int, cfg Config, err error) time.Duration {
	delay := float64(cfg.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= cfg.BackoffMultiplier
	}
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	result := time.Duration(delay)
	if cfg.Jitter {
		jitter := result.Seconds() * 0.25 * (0.5 + rand.Float64()/2)
		result += time.Duration(jitter * float64(time.Second))
	}

	if retryAfter, ok := retryAfterOf(err); ok {
		ra := time.Duration(retryAfter) * time.Millisecond
		if ra > result {
			result = ra
		}
	}
	return result
}

func retryAfterOf(err error) (int64, bool) {
	type withRetryAfter interface{ RetryAfter() *int64 }
	if w, ok := err.(withRetryAfter); ok {
		if ms := w.RetryAfter(); ms != nil {
			return *ms, true
		}
	}
	return 0, false
}
