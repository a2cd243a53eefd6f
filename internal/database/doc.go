// Package database provides connection pool management for the metrics database.
//
// The pipeline writes computed metrics to a single PostgreSQL database whose
// schema is owned by the consuming application, not this process.
package database
