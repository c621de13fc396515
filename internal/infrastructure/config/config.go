package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Log          LogConfig
	Ledger       LedgerConfig
	Cashflow     CashflowConfig
	Depreciation DepreciationConfig
	Retry        RetryConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name string
	Env  string // development, production
}

// DatabaseConfig holds SQLite database configuration
type DatabaseConfig struct {
	Path            string        // database file path, or a DSN for in-memory stores
	BusyTimeout     time.Duration // how long a writer waits on a locked database
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// LedgerConfig holds transaction recording configuration
type LedgerConfig struct {
	DefaultCurrency string
}

// CashflowConfig holds cashflow analysis configuration.
// SeedBalance and SeedDate anchor the very first snapshot when no
// prior snapshot exists.
type CashflowConfig struct {
	SeedBalance string // decimal string, e.g. "0" or "15000.00"
	SeedDate    string // YYYY-MM-DD; empty means 90 days before the first snapshot
}

// DepreciationConfig holds asset depreciation configuration
type DepreciationConfig struct {
	SalvageFraction float64 // fraction of purchase price kept as salvage floor
}

// RetryConfig holds transient-failure retry configuration
type RetryConfig struct {
	MaxRetries      uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with LEDGER_ prefix (e.g., LEDGER_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/openledger")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars carry it
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path:            v.GetString("database.path"),
			BusyTimeout:     v.GetDuration("database.busy_timeout"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Ledger: LedgerConfig{
			DefaultCurrency: v.GetString("ledger.default_currency"),
		},
		Cashflow: CashflowConfig{
			SeedBalance: v.GetString("cashflow.seed_balance"),
			SeedDate:    v.GetString("cashflow.seed_date"),
		},
		Depreciation: DepreciationConfig{
			SalvageFraction: v.GetFloat64("depreciation.salvage_fraction"),
		},
		Retry: RetryConfig{
			MaxRetries:      v.GetUint("retry.max_retries"),
			InitialInterval: v.GetDuration("retry.initial_interval"),
			MaxInterval:     v.GetDuration("retry.max_interval"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "openledger")
	v.SetDefault("app.env", "development")

	v.SetDefault("database.path", "openledger.db")
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("ledger.default_currency", "USD")

	v.SetDefault("cashflow.seed_balance", "0")
	v.SetDefault("cashflow.seed_date", "")

	v.SetDefault("depreciation.salvage_fraction", 0.0)

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_interval", 50*time.Millisecond)
	v.SetDefault("retry.max_interval", time.Second)
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Depreciation.SalvageFraction < 0 || c.Depreciation.SalvageFraction >= 1 {
		return fmt.Errorf("depreciation.salvage_fraction must be in [0, 1), got %v", c.Depreciation.SalvageFraction)
	}
	if c.Cashflow.SeedDate != "" {
		if _, err := time.Parse("2006-01-02", c.Cashflow.SeedDate); err != nil {
			return fmt.Errorf("cashflow.seed_date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
