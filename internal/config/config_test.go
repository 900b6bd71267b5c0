package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir from Go 1.24, reimplemented for the Go 1.21 toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestInitializeConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "SGD", cfg.Statement.Currency)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, ":8000", cfg.Server.Listen)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BILLBUDDY_STATEMENT_CURRENCY", "USD")
	t.Setenv("BILLBUDDY_LOG_LEVEL", "debug")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Statement.Currency)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitializeConfigRejectsBadCurrency(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BILLBUDDY_STATEMENT_CURRENCY", "DOLLARS")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestConfigureLoggingHonorsLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	logger := ConfigureLogging()
	assert.Equal(t, "debug", logger.GetLevel().String())
}
