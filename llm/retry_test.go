package llm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jessrhiannon/kudos/llm"
)

func TestDefaultRetryConfig(t *testing.T) {
	cfg := llm.DefaultRetryConfig()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.BaseDelay)
	assert.NoError(t, cfg.Validate())
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := llm.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second}

	// Exactly k * BaseDelay, no jitter
	assert.Equal(t, 2*time.Second, cfg.Backoff(1))
	assert.Equal(t, 4*time.Second, cfg.Backoff(2))
	assert.Equal(t, 6*time.Second, cfg.Backoff(3))

	// Monotonically non-decreasing in the attempt index
	prev := time.Duration(0)
	for k := 1; k <= 10; k++ {
		d := cfg.Backoff(k)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	assert.Error(t, llm.RetryConfig{MaxAttempts: 0, BaseDelay: time.Second}.Validate())
	assert.Error(t, llm.RetryConfig{MaxAttempts: 3, BaseDelay: -time.Second}.Validate())
	assert.NoError(t, llm.RetryConfig{MaxAttempts: 1, BaseDelay: 0}.Validate())
}
