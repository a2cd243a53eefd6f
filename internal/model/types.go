package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// -----------------------------------------------------------------------------
// Raw Extraction Types
// -----------------------------------------------------------------------------

// SeriesKind distinguishes individual equities from market indicators.
type SeriesKind string

const (
	KindStock SeriesKind = "stock"
	KindIndex SeriesKind = "index"
)

// PriceBar is one daily OHLCV bar. Date is the trading day at UTC midnight;
// ordering is always by calendar date, never by string comparison.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// FundamentalsSnapshot holds a company overview payload as raw string fields.
// Values are parsed (and "None"/"-" filtered) at transform time, not here.
type FundamentalsSnapshot map[string]string

// RawSeries is the extraction result for a single symbol. A failed extraction
// carries only Symbol, Kind, Err and ExtractedAt; Bars and Fundamentals stay
// empty and the error travels with the item instead of aborting the batch.
type RawSeries struct {
	Symbol       string               `json:"symbol"`
	Kind         SeriesKind           `json:"kind"`
	Bars         []PriceBar           `json:"bars,omitempty"`
	Fundamentals FundamentalsSnapshot `json:"fundamentals,omitempty"`
	Err          string               `json:"error,omitempty"`
	ExtractedAt  time.Time            `json:"extracted_at"`
}

// Failed reports whether the extraction of this series produced an error.
func (s RawSeries) Failed() bool { return s.Err != "" }

// RawBatch is the output of one extraction run: every configured stock plus
// the single market indicator, successes and failures alike.
type RawBatch struct {
	Stocks      []RawSeries `json:"stocks"`
	Index       RawSeries   `json:"index"`
	ExtractedAt time.Time   `json:"extracted_at"`
}

// -----------------------------------------------------------------------------
// Computed Metrics Types
// -----------------------------------------------------------------------------

// MetricsRecord is the computed output for a single symbol, keyed (Symbol, Date).
// Every windowed metric is nullable: a field is null exactly when the series
// has too little history for its window (k-day change needs more than k bars,
// volatility needs more than 30), or when its source field was absent.
type MetricsRecord struct {
	// Identity
	Symbol string     `json:"symbol"`
	Kind   SeriesKind `json:"kind"`
	Date   time.Time  `json:"date,omitzero"` // trading day of the newest bar

	// Error passthrough; a record with Err set carries no metric values.
	Err string `json:"error,omitempty"`

	// Latest bar
	Open   float64 `json:"open,omitzero"`
	High   float64 `json:"high,omitzero"`
	Low    float64 `json:"low,omitzero"`
	Close  float64 `json:"close,omitzero"`
	Volume int64   `json:"volume,omitzero"`

	// Trailing changes over 7/30/90 trading days
	Change7     null.Float `json:"change_7d,omitzero"`
	ChangePct7  null.Float `json:"change_pct_7d,omitzero"`
	Change30    null.Float `json:"change_30d,omitzero"`
	ChangePct30 null.Float `json:"change_pct_30d,omitzero"`
	Change90    null.Float `json:"change_90d,omitzero"`
	ChangePct90 null.Float `json:"change_pct_90d,omitzero"`

	// Annualized 30-day volatility, in percent
	Volatility30 null.Float `json:"volatility_30d,omitzero"`

	// Fundamentals (stocks only; *Pct fields are fraction ratios scaled to percent)
	MarketCap          null.Float `json:"market_cap,omitzero"`
	PERatio            null.Float `json:"pe_ratio,omitzero"`
	EPS                null.Float `json:"eps,omitzero"`
	DilutedEPSTTM      null.Float `json:"diluted_eps_ttm,omitzero"`
	RevenueTTM         null.Float `json:"revenue_ttm,omitzero"`
	GrossProfitTTM     null.Float `json:"gross_profit_ttm,omitzero"`
	DividendYieldPct   null.Float `json:"dividend_yield_pct,omitzero"`
	ProfitMarginPct    null.Float `json:"profit_margin_pct,omitzero"`
	OperatingMarginPct null.Float `json:"operating_margin_pct,omitzero"`
	ReturnOnAssetsPct  null.Float `json:"return_on_assets_pct,omitzero"`
	ReturnOnEquityPct  null.Float `json:"return_on_equity_pct,omitzero"`

	TransformedAt time.Time `json:"transformed_at"`
}

// Failed reports whether this record is an error passthrough from extraction
// or transformation rather than a computed result.
func (r MetricsRecord) Failed() bool { return r.Err != "" }

// MetricsBatch is the transform stage's output for one run.
type MetricsBatch struct {
	Stocks []MetricsRecord `json:"stocks"`
	Index  MetricsRecord   `json:"index"`
}

// -----------------------------------------------------------------------------
// Run Lifecycle Types
// -----------------------------------------------------------------------------

// LoadResult aggregates per-record outcomes of the load stage. Errors count
// both records skipped for an upstream error and records whose write failed.
type LoadResult struct {
	StocksLoaded     int       `json:"stocks_loaded"`
	StockErrors      int       `json:"stock_errors"`
	IndicatorsLoaded int       `json:"indicators_loaded"`
	IndicatorErrors  int       `json:"indicator_errors"`
	CompletedAt      time.Time `json:"completed_at"`
}

// RunState tracks where in the extract/transform/load sequence a run is.
type RunState string

const (
	StateIdle         RunState = "idle"
	StateExtracting   RunState = "extracting"
	StateTransforming RunState = "transforming"
	StateLoading      RunState = "loading"
	StateDone         RunState = "done"
	StateFailed       RunState = "failed"
)

// RunResult is the orchestrator's structured outcome for one pipeline run.
// Success is false only when a whole stage failed; per-item errors leave
// Success true and show up in ExtractErrors and Load instead.
type RunResult struct {
	RunID         uuid.UUID  `json:"run_id"`
	Success       bool       `json:"success"`
	Err           string     `json:"error,omitempty"`
	State         RunState   `json:"state"`
	Symbols       int        `json:"symbols"`
	ExtractErrors int        `json:"extract_errors"`
	Load          LoadResult `json:"load"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
}

// Summary renders the single human-readable line logged at the end of a run.
func (r RunResult) Summary() string {
	status := "succeeded"
	if !r.Success {
		status = "failed"
	}
	s := fmt.Sprintf("run %s %s in %s: %d symbols, %d extract errors, stocks %d loaded / %d failed, index %d loaded / %d failed",
		r.RunID, status, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
		r.Symbols, r.ExtractErrors,
		r.Load.StocksLoaded, r.Load.StockErrors,
		r.Load.IndicatorsLoaded, r.Load.IndicatorErrors)
	if r.Err != "" {
		s += " (" + r.Err + ")"
	}
	return s
}
