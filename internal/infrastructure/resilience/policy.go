package resilience

import "time"

// Config tunes the retry loop and the per-operation circuit breakers.
// The pipeline talks to two very different backends, so there is no
// single default: model inference can run for minutes, while a queue
// publish finishes in milliseconds. Pick the profile that matches the
// call pattern.
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// LLMProfile is sized for generate and embed calls against the
// inference server. Backoff grows into seconds so a restarting server
// has time to bind its port, and the breaker stays open long enough to
// skip a model that is still loading weights. Half-open probes one
// call at a time because a single generate is expensive.
func LLMProfile() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 500 * time.Millisecond,
		RetryMaxBackoff:     5 * time.Second,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      5,
		BreakerFailureRatio:     0.6,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// QueueProfile is sized for broker publishes. The client reconnects in
// the background, so retries are cheap and frequent and the breaker
// backs off for a short window only; an upload request is waiting on
// the publish and cannot afford minute-long pauses.
func QueueProfile() Config {
	return Config{
		RetryMaxAttempts:    4,
		RetryInitialBackoff: 50 * time.Millisecond,
		RetryMaxBackoff:     500 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      10 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

// normalize clamps zero and nonsense values to conservative floors so
// a partially filled Config cannot produce a busy retry loop or a
// breaker that never closes.
func (c Config) normalize() Config {
	out := c

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = 1
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = 50 * time.Millisecond
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = 2.0
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = 1
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = 0.5
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = 10 * time.Second
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = 1
	}

	return out
}
