// Package fmp provides a client for the Financial Modeling Prep REST API.
//
// The pipeline uses a single endpoint, historical-price-full, to fetch the
// daily history of the market indicator. Unlike Alpha Vantage, values arrive
// as native JSON numbers; only the bar dates need parsing.
package fmp
