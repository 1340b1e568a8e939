package crawler

import (
	"fmt"
	"math"
	"time"
)

// Default retry parameters shared by all crawlers unless a source overrides
// them.
const (
	DefaultMaxAttempts   = 3
	DefaultBackoffBase   = time.Second
	DefaultBackoffFactor = 2.0
)

// RetryPolicy describes the exponential backoff applied between fetch
// attempts: attempt n waits base * factor^(n-1).
type RetryPolicy struct {
	MaxAttempts   int
	BackoffBase   time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy returns the shared defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   DefaultMaxAttempts,
		BackoffBase:   DefaultBackoffBase,
		BackoffFactor: DefaultBackoffFactor,
	}
}

// Backoff returns the wait duration after the given 1-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(p.BackoffBase) * math.Pow(p.BackoffFactor, float64(attempt-1)))
}

// FetchError reports that a link could not be fetched after every retry.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
