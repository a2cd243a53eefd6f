package alphavantage

// DailyResponse from GET /query?function=TIME_SERIES_DAILY
type DailyResponse struct {
	MetaData   map[string]string   `json:"Meta Data"`
	TimeSeries map[string]DailyBar `json:"Time Series (Daily)"`
}

// DailyBar is one day's OHLCV entry, keyed by date in the response map.
// All values arrive as decimal strings.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
