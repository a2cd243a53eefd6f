// Package model defines shared data types used across the equity metrics pipeline.
//
// Conventions:
//   - Dates: time.Time at UTC midnight of the trading day
//   - Prices: float64 in the instrument's quote currency
//   - Nullable metrics: null.Float, serialized as JSON null / SQL NULL when no value exists
//   - IDs: uuid.UUID for run IDs, plain ticker strings for symbols
package model
