// Package retry provides bounded retry with exponential backoff and jitter,
// used to poll an external service until it reports readiness.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// ErrExhausted is returned when every attempt has failed. The last attempt's
// error is joined into the chain and reachable through errors.Is/As.
var ErrExhausted = errors.New("retry attempts exhausted")

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of attempts (default: 4).
	MaxAttempts int
	// InitialDelay is the delay after the first failed attempt (default: 250ms).
	InitialDelay time.Duration
	// MaxDelay caps backoff growth (default: 2s).
	MaxDelay time.Duration
	// Multiplier is the backoff multiplier (default: 2.0).
	Multiplier float64
	// JitterFactor randomizes each delay within that fraction of its value (default: 0.2).
	JitterFactor float64
	// Logger for retry events.
	Logger *slog.Logger
}

// DefaultConfig returns the polling defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
		Logger:       slog.Default(),
	}
}

// Retryer executes operations until success, a permanent error, or
// exhaustion.
type Retryer struct {
	config Config
}

// New creates a Retryer, filling zero config fields with defaults.
func New(config Config) *Retryer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 4
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 250 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 2 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFactor <= 0 || config.JitterFactor > 1 {
		config.JitterFactor = 0.2
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Retryer{config: config}
}

// Permanent marks err as non-retryable: Do stops immediately and returns the
// wrapped error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// CalculateDelay returns the backoff delay for a 1-based attempt number:
// initialDelay * multiplier^(attempt-1), capped at MaxDelay, with jitter in
// [delay*(1-jitterFactor), delay*(1+jitterFactor)].
func (r *Retryer) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(r.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= r.config.Multiplier
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	jitterRange := delay * r.config.JitterFactor
	delay += rand.Float64()*2*jitterRange - jitterRange

	if delay < float64(time.Millisecond) {
		delay = float64(time.Millisecond)
	}

	return time.Duration(delay)
}

// Operation is one attempt. A nil error stops the loop.
type Operation func(ctx context.Context) error

// Do executes op until it succeeds, returns a permanent error, the context
// ends, or MaxAttempts is reached.
func (r *Retryer) Do(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				r.config.Logger.Debug("operation succeeded after retry",
					slog.Int("attempts", attempt),
				)
			}
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.CalculateDelay(attempt)
		r.config.Logger.Debug("waiting before next attempt",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.config.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, r.config.MaxAttempts, lastErr)
}

// DoWithResult executes op until it succeeds and returns its result.
func DoWithResult[T any](ctx context.Context, r *Retryer, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// MaxAttempts returns the configured attempt limit.
func (r *Retryer) MaxAttempts() int {
	return r.config.MaxAttempts
}
