package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/jlenormand/equity-metrics/internal/model"
)

// historyResponse from GET /api/v3/historical-price-full/{symbol}.
// The "Error Message" field is set instead of data when the request fails.
type historyResponse struct {
	Symbol       string          `json:"symbol"`
	Historical   []historicalBar `json:"historical"`
	ErrorMessage string          `json:"Error Message"`
}

// historicalBar is one daily entry. Volume is a float because large values
// can arrive in scientific notation.
type historicalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type apiError struct {
	statusCode int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("fmp api error %d: %s", e.statusCode, http.StatusText(e.statusCode))
}

func (e *apiError) retryable() bool {
	return e.statusCode >= 500 || e.statusCode == http.StatusTooManyRequests
}

// Client provides access to the Financial Modeling Prep REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Financial Modeling Prep client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// GetHistory fetches the daily history for a symbol, newest first.
// An empty series (no error) means the provider has no data for the symbol.
func (c *Client) GetHistory(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	fullURL := fmt.Sprintf("%s/api/v3/historical-price-full/%s?apikey=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request", "attempt", attempt, "symbol", symbol)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryBackoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err != nil {
			lastErr = err
			var ae *apiError
			if errors.As(err, &ae) && ae.retryable() {
				continue
			}
			return nil, fmt.Errorf("get history %s: %w", symbol, err)
		}

		bars, err := parseHistory(body)
		if err != nil {
			return nil, fmt.Errorf("get history %s: %w", symbol, err)
		}
		return bars, nil
	}

	return nil, fmt.Errorf("get history %s: max retries exceeded: %w", symbol, lastErr)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &apiError{statusCode: resp.StatusCode}
	}

	return body, nil
}

func parseHistory(body []byte) ([]model.PriceBar, error) {
	var resp historyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("upstream error: %s", resp.ErrorMessage)
	}

	bars := make([]model.PriceBar, 0, len(resp.Historical))
	for _, h := range resp.Historical {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", h.Date, err)
		}
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: int64(h.Volume),
		})
	}

	// Order is not guaranteed upstream; normalize to newest first.
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.After(bars[j].Date)
	})

	return bars, nil
}
