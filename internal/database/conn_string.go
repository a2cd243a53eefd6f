package database

import (
	"fmt"
	"net/url"

	"github.com/jlenormand/equity-metrics/internal/config"
)

// appName labels the pipeline's connections in pg_stat_activity.
const appName = "equity-metrics"

// BuildConnString builds a PostgreSQL connection string from config. The
// password is URL-escaped; sslmode falls back to "prefer" when unset.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&application_name=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
		appName,
	)
}
