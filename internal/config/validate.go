package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *PipelineConfig) Validate() error {
	if len(c.Pipeline.Symbols) == 0 {
		return errors.New("pipeline.symbols must list at least one symbol")
	}
	for i, s := range c.Pipeline.Symbols {
		if s == "" {
			return fmt.Errorf("pipeline.symbols[%d] is empty", i)
		}
	}
	if c.Pipeline.IndexSymbol == "" {
		return errors.New("pipeline.index_symbol is required")
	}
	if c.Pipeline.RequestInterval <= 0 {
		return errors.New("pipeline.request_interval must be positive")
	}

	if err := c.Providers.AlphaVantage.validate("providers.alphavantage"); err != nil {
		return err
	}
	if err := c.Providers.FMP.validate("providers.fmp"); err != nil {
		return err
	}

	return c.Database.Metrics.validate("database.metrics")
}

func (p *ProviderConfig) validate(prefix string) error {
	if p.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if p.APIKey == "" {
		return fmt.Errorf("%s.api_key is required", prefix)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("%s.max_retries must be >= 0", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
