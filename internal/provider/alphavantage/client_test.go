package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const dailyFixture = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "NVDA",
		"3. Last Refreshed": "2025-06-04"
	},
	"Time Series (Daily)": {
		"2025-06-02": {"1. open": "135.00", "2. high": "137.20", "3. low": "134.10", "4. close": "136.50", "5. volume": "180023450"},
		"2025-06-04": {"1. open": "138.00", "2. high": "140.00", "3. low": "137.50", "4. close": "139.25", "5. volume": "201334100"},
		"2025-06-03": {"1. open": "136.60", "2. high": "138.90", "3. low": "136.00", "4. close": "138.10", "5. volume": "174559000"}
	}
}`

func TestGetDailySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/query")
		}
		q := r.URL.Query()
		if got := q.Get("function"); got != "TIME_SERIES_DAILY" {
			t.Errorf("function = %q, want %q", got, "TIME_SERIES_DAILY")
		}
		if got := q.Get("symbol"); got != "NVDA" {
			t.Errorf("symbol = %q, want %q", got, "NVDA")
		}
		if got := q.Get("outputsize"); got != "compact" {
			t.Errorf("outputsize = %q, want %q", got, "compact")
		}
		if got := q.Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want %q", got, "test-key")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, dailyFixture)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	bars, err := client.GetDailySeries(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("GetDailySeries failed: %v", err)
	}

	if len(bars) != 3 {
		t.Fatalf("len(bars) = %d, want 3", len(bars))
	}

	// Bars must come back newest first regardless of map order.
	wantDates := []string{"2025-06-04", "2025-06-03", "2025-06-02"}
	for i, want := range wantDates {
		if got := bars[i].Date.Format("2006-01-02"); got != want {
			t.Errorf("bars[%d].Date = %s, want %s", i, got, want)
		}
	}

	if bars[0].Open != 138.00 {
		t.Errorf("bars[0].Open = %v, want 138.00", bars[0].Open)
	}
	if bars[0].Close != 139.25 {
		t.Errorf("bars[0].Close = %v, want 139.25", bars[0].Close)
	}
	if bars[2].Volume != 180023450 {
		t.Errorf("bars[2].Volume = %d, want 180023450", bars[2].Volume)
	}
}

func TestGetDailySeriesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Meta Data": {"2. Symbol": "XXXX"}, "Time Series (Daily)": {}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	bars, err := client.GetDailySeries(context.Background(), "XXXX")
	if err != nil {
		t.Fatalf("GetDailySeries failed: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("len(bars) = %d, want 0", len(bars))
	}
}

func TestGetDailySeriesUpstreamError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "error message",
			body:    `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`,
			wantMsg: "Invalid API call",
		},
		{
			name:    "rate limit note",
			body:    `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`,
			wantMsg: "rate limit",
		},
		{
			name:    "information notice",
			body:    `{"Information": "The TIME_SERIES_DAILY API is a premium endpoint."}`,
			wantMsg: "premium endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-key")
			_, err := client.GetDailySeries(context.Background(), "NVDA")
			if err == nil {
				t.Fatal("GetDailySeries expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGetDailySeriesMalformedValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Time Series (Daily)": {
			"2025-06-04": {"1. open": "138.00", "2. high": "140.00", "3. low": "137.50", "4. close": "not-a-number", "5. volume": "201334100"}
		}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.GetDailySeries(context.Background(), "NVDA")
	if err == nil {
		t.Fatal("GetDailySeries expected error, got nil")
	}
	if !strings.Contains(err.Error(), "parse close") {
		t.Errorf("error = %q, want substring %q", err.Error(), "parse close")
	}
}

func TestGetOverview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("function"); got != "OVERVIEW" {
			t.Errorf("function = %q, want %q", got, "OVERVIEW")
		}
		if got := q.Get("symbol"); got != "NVDA" {
			t.Errorf("symbol = %q, want %q", got, "NVDA")
		}
		if got := q.Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want %q", got, "test-key")
		}

		fmt.Fprint(w, `{
			"Symbol": "NVDA",
			"MarketCapitalization": "3745000000000",
			"PERatio": "52.4",
			"DividendYield": "0.0003",
			"ProfitMargin": "0.558"
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	overview, err := client.GetOverview(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if got := overview["MarketCapitalization"]; got != "3745000000000" {
		t.Errorf("MarketCapitalization = %q, want %q", got, "3745000000000")
	}
	if got := overview["DividendYield"]; got != "0.0003" {
		t.Errorf("DividendYield = %q, want %q", got, "0.0003")
	}
}

func TestRetryOnServerError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, dailyFixture)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", WithRetries(3, 10*time.Millisecond))
	bars, err := client.GetDailySeries(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("GetDailySeries failed after retries: %v", err)
	}
	if len(bars) != 3 {
		t.Errorf("len(bars) = %d, want 3", len(bars))
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("request count = %d, want 3", got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", WithRetries(3, 10*time.Millisecond))
	_, err := client.GetDailySeries(context.Background(), "NVDA")
	if err == nil {
		t.Fatal("GetDailySeries expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusNotFound)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("request count = %d, want 1 (no retries)", got)
	}
}

func TestMaxRetriesExceeded(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", WithRetries(2, 5*time.Millisecond))
	_, err := client.GetDailySeries(context.Background(), "NVDA")
	if err == nil {
		t.Fatal("GetDailySeries expected error, got nil")
	}
	if !strings.Contains(err.Error(), "max retries exceeded") {
		t.Errorf("error = %q, want substring %q", err.Error(), "max retries exceeded")
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("request count = %d, want 3 (initial + 2 retries)", got)
	}
}

func TestContextCancellationDuringRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "test-key", WithRetries(5, 100*time.Millisecond))
	_, err := client.GetDailySeries(ctx, "NVDA")
	if err == nil {
		t.Fatal("GetDailySeries expected error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestAPIErrorIsRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		if got := err.IsRetryable(); got != tt.want {
			t.Errorf("IsRetryable(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
