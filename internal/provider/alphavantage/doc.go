// Package alphavantage provides a client for the Alpha Vantage REST API.
//
// The pipeline uses two endpoints:
//   - TIME_SERIES_DAILY: daily OHLCV bars for a stock symbol
//   - OVERVIEW: company fundamentals as raw string fields
//
// Alpha Vantage reports most failures with HTTP 200 and a distinguished
// payload field ("Error Message", "Note", "Information"); the client maps
// those to errors so callers see one failure surface.
package alphavantage
