package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessrhiannon/kudos/config"
)

func TestRootCmd_Flags(t *testing.T) {
	flags := rootCmd().Flags()

	for _, name := range []string{"config", "timeout", "verbose", "stats", "seed"} {
		assert.NotNil(t, flags.Lookup(name), "flag --%s must exist", name)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_ORG", "")
	t.Setenv("OPENAI_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry:\n  max_attempts: 5\n"), 0644))

	cfg, err := loadConfig(path, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"), 0, nil)
	assert.Error(t, err)
}

func TestLoadConfig_TimeoutOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_ORG", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("", 5*time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Duration(5*time.Second), cfg.API.Timeout)

	// Zero means keep the configured value
	cfg, err = loadConfig("", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Duration(20*time.Second), cfg.API.Timeout)
}
