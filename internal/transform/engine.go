package transform

import (
	"math"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jlenormand/equity-metrics/internal/model"
)

// tradingDaysPerYear is the annualization base for daily volatility.
const tradingDaysPerYear = 252

// Engine computes metric records from raw series.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Transform computes the metrics record for one raw series. An error series
// passes through as a degenerate record; an empty series becomes one with a
// distinct "no price data" error. The input is never mutated.
func (e *Engine) Transform(s model.RawSeries) model.MetricsRecord {
	rec := model.MetricsRecord{
		Symbol:        s.Symbol,
		Kind:          s.Kind,
		TransformedAt: time.Now().UTC(),
	}

	if s.Failed() {
		rec.Err = s.Err
		return rec
	}
	if len(s.Bars) == 0 {
		rec.Err = "no price data"
		return rec
	}

	bars := sortedBars(s.Bars)
	ref := bars[0]

	rec.Date = ref.Date
	rec.Open = ref.Open
	rec.High = ref.High
	rec.Low = ref.Low
	rec.Close = ref.Close
	rec.Volume = ref.Volume

	rec.Change7, rec.ChangePct7 = change(bars, 7)
	rec.Change30, rec.ChangePct30 = change(bars, 30)
	rec.Change90, rec.ChangePct90 = change(bars, 90)
	rec.Volatility30 = volatility(bars, 30)

	if s.Kind == model.KindStock {
		applyFundamentals(&rec, s.Fundamentals)
	}

	return rec
}

// TransformBatch maps Transform across a raw batch.
func (e *Engine) TransformBatch(b *model.RawBatch) *model.MetricsBatch {
	out := &model.MetricsBatch{
		Stocks: make([]model.MetricsRecord, 0, len(b.Stocks)),
	}
	for _, s := range b.Stocks {
		out.Stocks = append(out.Stocks, e.Transform(s))
	}
	out.Index = e.Transform(b.Index)
	return out
}

// sortedBars returns a copy of bars ordered newest first. Ordering compares
// real calendar dates, never date strings.
func sortedBars(bars []model.PriceBar) []model.PriceBar {
	out := make([]model.PriceBar, len(bars))
	copy(out, bars)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// change computes the absolute and percent change from the bar k positions
// back to the newest bar. Both are null when no bar sits k positions back,
// or when the comparison close is zero.
func change(bars []model.PriceBar, k int) (null.Float, null.Float) {
	if len(bars) <= k {
		return null.Float{}, null.Float{}
	}

	ref := bars[0].Close
	cmp := bars[k].Close
	if cmp == 0 {
		return null.Float{}, null.Float{}
	}

	abs := ref - cmp
	return null.FloatFrom(abs), null.FloatFrom(abs / cmp * 100)
}

// volatility computes annualized volatility over the n newest daily simple
// returns, as a percentage: population standard deviation of the returns
// scaled by sqrt(252). Null when the series has n or fewer bars, or when a
// comparison close is zero.
func volatility(bars []model.PriceBar, n int) null.Float {
	if len(bars) <= n {
		return null.Float{}
	}

	returns := make([]float64, n)
	for i := 0; i < n; i++ {
		prev := bars[i+1].Close
		if prev == 0 {
			return null.Float{}
		}
		returns[i] = (bars[i].Close - prev) / prev
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(n)

	return null.FloatFrom(math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100)
}
