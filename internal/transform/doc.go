// Package transform computes windowed metrics from raw price series.
//
// Everything here is pure computation: no I/O, no retries, no clock beyond
// stamping the output. Metrics follow the null-over-zero rule: a k-day
// change needs more than k bars and 30-day volatility needs more than 30,
// otherwise the field is null, never a fabricated zero.
package transform
