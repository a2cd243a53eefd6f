package config

import "time"

// PipelineConfig is the root configuration for a pipeline instance.
type PipelineConfig struct {
	Pipeline  RunConfig       `yaml:"pipeline"`
	Providers ProvidersConfig `yaml:"providers"`
	Database  DatabaseConfig  `yaml:"database"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
}

// RunConfig holds the symbol universe and extraction pacing.
type RunConfig struct {
	Symbols         []string      `yaml:"symbols"`          // Stock tickers to extract
	IndexSymbol     string        `yaml:"index_symbol"`     // Market indicator ticker (e.g. ^GSPC)
	RequestInterval time.Duration `yaml:"request_interval"` // Minimum spacing between provider requests
	ArchiveDir      string        `yaml:"archive_dir"`      // Directory for raw batch snapshots
}

// ProvidersConfig holds the two upstream data providers.
type ProvidersConfig struct {
	AlphaVantage ProviderConfig `yaml:"alphavantage"`
	FMP          ProviderConfig `yaml:"fmp"`
}

// ProviderConfig holds one upstream REST API.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DatabaseConfig holds the metrics database connection.
type DatabaseConfig struct {
	Metrics DBConfig `yaml:"metrics"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ScheduleConfig holds the cron trigger settings.
type ScheduleConfig struct {
	Cron       string `yaml:"cron"`         // Standard 5-field cron spec
	RunOnStart bool   `yaml:"run_on_start"` // Kick off one run immediately at startup
}
