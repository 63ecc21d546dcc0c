package api

import "time"

// RetryPolicy bounds how often an upload is retried and how long to wait
// between attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// Backoff returns the wait before the next try after the given
	// 1-based attempt number.
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy is 3 attempts with linear backoff: 1s after the
// first failure, 2s after the second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// NoBackoff keeps the attempt count but waits no time between tries.
// Used by tests.
func NoBackoff(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     func(int) time.Duration { return 0 },
	}
}
