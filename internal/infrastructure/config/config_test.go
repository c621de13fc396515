package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openledger", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, "openledger.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)

	assert.Equal(t, "USD", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, "0", cfg.Cashflow.SeedBalance)
	assert.Empty(t, cfg.Cashflow.SeedDate)
	assert.Zero(t, cfg.Depreciation.SalvageFraction)

	assert.Equal(t, uint(3), cfg.Retry.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.InitialInterval)
	assert.Equal(t, time.Second, cfg.Retry.MaxInterval)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LEDGER_APP_ENV", "production")
	t.Setenv("LEDGER_DATABASE_PATH", "/var/lib/openledger/ledger.db")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_LOG_FORMAT", "json")
	t.Setenv("LEDGER_CASHFLOW_SEED_BALANCE", "15000.00")
	t.Setenv("LEDGER_CASHFLOW_SEED_DATE", "2026-01-01")
	t.Setenv("LEDGER_DEPRECIATION_SALVAGE_FRACTION", "0.1")
	t.Setenv("LEDGER_RETRY_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/openledger/ledger.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "15000.00", cfg.Cashflow.SeedBalance)
	assert.Equal(t, "2026-01-01", cfg.Cashflow.SeedDate)
	assert.InDelta(t, 0.1, cfg.Depreciation.SalvageFraction, 1e-9)
	assert.Equal(t, uint(5), cfg.Retry.MaxRetries)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects an empty database path", func(t *testing.T) {
		t.Setenv("LEDGER_DATABASE_PATH", "")
		// Viper treats an empty env var as unset, so force the failure
		// through validate directly.
		cfg := &Config{Database: DatabaseConfig{Path: ""}}
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects a salvage fraction of one or more", func(t *testing.T) {
		t.Setenv("LEDGER_DEPRECIATION_SALVAGE_FRACTION", "1.0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "salvage_fraction")
	})

	t.Run("rejects a negative salvage fraction", func(t *testing.T) {
		cfg := &Config{
			Database:     DatabaseConfig{Path: "ledger.db"},
			Depreciation: DepreciationConfig{SalvageFraction: -0.1},
		}
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects a malformed seed date", func(t *testing.T) {
		t.Setenv("LEDGER_CASHFLOW_SEED_DATE", "January 1st")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seed_date")
	})
}
