package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAlphaVantageURL = "https://www.alphavantage.co"
	DefaultFMPURL          = "https://financialmodelingprep.com"
	DefaultProviderTimeout = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultIndexSymbol     = "^GSPC"
	DefaultRequestInterval = 12 * time.Second
	DefaultArchiveDir      = "data/raw"
	DefaultCronSpec        = "30 17 * * 1-5" // weekdays after US market close
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
)

func (c *PipelineConfig) applyDefaults() {
	// Pipeline defaults
	if c.Pipeline.IndexSymbol == "" {
		c.Pipeline.IndexSymbol = DefaultIndexSymbol
	}
	if c.Pipeline.RequestInterval == 0 {
		c.Pipeline.RequestInterval = DefaultRequestInterval
	}
	if c.Pipeline.ArchiveDir == "" {
		c.Pipeline.ArchiveDir = DefaultArchiveDir
	}

	// Provider defaults
	applyProviderDefaults(&c.Providers.AlphaVantage, DefaultAlphaVantageURL)
	applyProviderDefaults(&c.Providers.FMP, DefaultFMPURL)

	// Database defaults
	applyDBDefaults(&c.Database.Metrics)

	// Schedule defaults
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCronSpec
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
