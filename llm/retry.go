package llm

import (
	"fmt"
	"time"
)

// RetryConfig holds retry configuration for completion requests.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per request. Must be >= 1.
	MaxAttempts int

	// BaseDelay is the backoff unit. Attempt k waits k * BaseDelay before
	// attempt k+1, so delays grow linearly and the worst-case wait is bounded.
	BaseDelay time.Duration
}

// DefaultRetryConfig returns the standard retry settings: three attempts
// with a two second backoff unit.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// Backoff returns the delay to wait after the given attempt number
// (1-indexed) before the next attempt begins.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * c.BaseDelay
}

// Validate checks that the retry configuration is usable.
func (c RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base delay must not be negative, got %s", c.BaseDelay)
	}
	return nil
}
