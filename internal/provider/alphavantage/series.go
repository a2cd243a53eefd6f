package alphavantage

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jlenormand/equity-metrics/internal/model"
)

// GetDailySeries fetches the recent daily bars for a symbol, newest first.
// An empty series (no error) means the provider has no data for the symbol.
func (c *Client) GetDailySeries(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", symbol)
	query.Set("outputsize", "compact")

	var resp DailyResponse
	if err := c.get(ctx, "/query", query, &resp); err != nil {
		return nil, fmt.Errorf("get daily series %s: %w", symbol, err)
	}

	bars, err := toPriceBars(&resp)
	if err != nil {
		return nil, fmt.Errorf("get daily series %s: %w", symbol, err)
	}

	return bars, nil
}

// GetOverview fetches company fundamentals for a symbol. Fields stay raw
// strings; parsing and unit handling happen at transform time.
func (c *Client) GetOverview(ctx context.Context, symbol string) (model.FundamentalsSnapshot, error) {
	query := url.Values{}
	query.Set("function", "OVERVIEW")
	query.Set("symbol", symbol)

	var resp model.FundamentalsSnapshot
	if err := c.get(ctx, "/query", query, &resp); err != nil {
		return nil, fmt.Errorf("get overview %s: %w", symbol, err)
	}

	return resp, nil
}
