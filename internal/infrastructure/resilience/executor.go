// Package resilience provides a retrying executor with per-operation
// circuit breakers, shared by the outbound HTTP and queue adapters.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrorClassification tells the executor how to treat a failed call.
type ErrorClassification struct {
	// Retryable allows another attempt after a backoff pause.
	Retryable bool
	// RecordFailure counts the error against the circuit breaker.
	RecordFailure bool
}

// Classifier maps an error from a protected call to its classification.
type Classifier func(err error) ErrorClassification

// Executor runs outbound calls with bounded retries and one circuit
// breaker per named operation.
type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Execute runs call under the breaker registered for operation,
// retrying retryable failures until attempts or the context run out.
// The returned error is the last call error, wrapped by the breaker
// error when the circuit is open.
func (e *Executor) Execute(ctx context.Context, operation string, call func(ctx context.Context) error, classify Classifier) error {
	if classify == nil {
		classify = func(error) ErrorClassification {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}
	}

	var lastErr error
	backoff := e.cfg.RetryInitialBackoff

	for attempt := 1; attempt <= e.cfg.RetryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = e.executeOnce(ctx, operation, call, classify)
		if lastErr == nil {
			return nil
		}

		cls := classify(lastErr)
		if !cls.Retryable || attempt == e.cfg.RetryMaxAttempts {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * e.cfg.RetryMultiplier)
		if backoff > e.cfg.RetryMaxBackoff {
			backoff = e.cfg.RetryMaxBackoff
		}
	}

	return lastErr
}

func (e *Executor) executeOnce(ctx context.Context, operation string, call func(ctx context.Context) error, classify Classifier) error {
	if !e.cfg.BreakerEnabled {
		return call(ctx)
	}

	breaker := e.breakerFor(operation)
	result, err := breaker.Execute(func() (any, error) {
		callErr := call(ctx)
		if callErr == nil {
			return nil, nil
		}
		if !classify(callErr).RecordFailure {
			// Hide the error from the breaker but keep it for the caller.
			return silencedError{err: callErr}, nil
		}
		return nil, callErr
	})
	if err != nil {
		return err
	}
	if silenced, ok := result.(silencedError); ok {
		return silenced.err
	}
	return nil
}

func (e *Executor) breakerFor(operation string) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	cfg := e.cfg
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        operation,
		MaxRequests: cfg.BreakerHalfOpenMaxCalls,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
	})
	e.breakers[operation] = breaker
	return breaker
}

type silencedError struct {
	err error
}

// IsCircuitOpen reports whether err was produced by an open or
// saturated half-open breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
