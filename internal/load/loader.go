package load

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jlenormand/equity-metrics/internal/model"
)

const upsertStockSQL = `
	INSERT INTO stock_metrics (
		symbol, date, open, high, low, close, volume,
		change_7d, change_pct_7d, change_30d, change_pct_30d, change_90d, change_pct_90d,
		volatility_30d,
		market_cap, pe_ratio, eps, diluted_eps_ttm, revenue_ttm, gross_profit_ttm,
		dividend_yield_pct, profit_margin_pct, operating_margin_pct,
		return_on_assets_pct, return_on_equity_pct,
		transformed_at, processed_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14,
		$15, $16, $17, $18, $19, $20,
		$21, $22, $23,
		$24, $25,
		$26, $27
	)
	ON CONFLICT (symbol, date) DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		change_7d = EXCLUDED.change_7d,
		change_pct_7d = EXCLUDED.change_pct_7d,
		change_30d = EXCLUDED.change_30d,
		change_pct_30d = EXCLUDED.change_pct_30d,
		change_90d = EXCLUDED.change_90d,
		change_pct_90d = EXCLUDED.change_pct_90d,
		volatility_30d = EXCLUDED.volatility_30d,
		market_cap = EXCLUDED.market_cap,
		pe_ratio = EXCLUDED.pe_ratio,
		eps = EXCLUDED.eps,
		diluted_eps_ttm = EXCLUDED.diluted_eps_ttm,
		revenue_ttm = EXCLUDED.revenue_ttm,
		gross_profit_ttm = EXCLUDED.gross_profit_ttm,
		dividend_yield_pct = EXCLUDED.dividend_yield_pct,
		profit_margin_pct = EXCLUDED.profit_margin_pct,
		operating_margin_pct = EXCLUDED.operating_margin_pct,
		return_on_assets_pct = EXCLUDED.return_on_assets_pct,
		return_on_equity_pct = EXCLUDED.return_on_equity_pct,
		transformed_at = EXCLUDED.transformed_at,
		processed_at = EXCLUDED.processed_at
`

const upsertIndexSQL = `
	INSERT INTO index_metrics (
		symbol, date, open, high, low, close, volume,
		change_7d, change_pct_7d, change_30d, change_pct_30d, change_90d, change_pct_90d,
		volatility_30d,
		transformed_at, processed_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14,
		$15, $16
	)
	ON CONFLICT (symbol, date) DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		change_7d = EXCLUDED.change_7d,
		change_pct_7d = EXCLUDED.change_pct_7d,
		change_30d = EXCLUDED.change_30d,
		change_pct_30d = EXCLUDED.change_pct_30d,
		change_90d = EXCLUDED.change_90d,
		change_pct_90d = EXCLUDED.change_pct_90d,
		volatility_30d = EXCLUDED.volatility_30d,
		transformed_at = EXCLUDED.transformed_at,
		processed_at = EXCLUDED.processed_at
`

// Execer executes a single SQL statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Loader writes metric records to the stock_metrics and index_metrics tables.
type Loader struct {
	db     Execer
	logger *slog.Logger
}

// New creates a Loader.
func New(db Execer, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{db: db, logger: logger}
}

// LoadBatch upserts every record in the batch and returns the aggregate
// counts. Records carrying an upstream error are counted and skipped without
// touching the database; a failed write is logged and counted, and the rest
// of the batch still loads.
func (l *Loader) LoadBatch(ctx context.Context, batch *model.MetricsBatch) model.LoadResult {
	start := time.Now()
	var res model.LoadResult

	for _, rec := range batch.Stocks {
		if rec.Failed() {
			l.logger.Warn("skipping failed stock record",
				"symbol", rec.Symbol,
				"err", rec.Err,
			)
			res.StockErrors++
			continue
		}
		if err := l.upsertStock(ctx, rec); err != nil {
			l.logger.Error("failed to load stock record",
				"symbol", rec.Symbol,
				"err", err,
			)
			res.StockErrors++
			continue
		}
		res.StocksLoaded++
	}

	idx := batch.Index
	if idx.Failed() {
		l.logger.Warn("skipping failed index record",
			"symbol", idx.Symbol,
			"err", idx.Err,
		)
		res.IndicatorErrors++
	} else if err := l.upsertIndex(ctx, idx); err != nil {
		l.logger.Error("failed to load index record",
			"symbol", idx.Symbol,
			"err", err,
		)
		res.IndicatorErrors++
	} else {
		res.IndicatorsLoaded++
	}

	res.CompletedAt = time.Now().UTC()

	l.logger.Info("load complete",
		"stocks_loaded", res.StocksLoaded,
		"stock_errors", res.StockErrors,
		"indicators_loaded", res.IndicatorsLoaded,
		"indicator_errors", res.IndicatorErrors,
		"duration", time.Since(start),
	)

	return res
}

func (l *Loader) upsertStock(ctx context.Context, rec model.MetricsRecord) error {
	_, err := l.db.Exec(ctx, upsertStockSQL,
		rec.Symbol, rec.Date, rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
		rec.Change7, rec.ChangePct7, rec.Change30, rec.ChangePct30, rec.Change90, rec.ChangePct90,
		rec.Volatility30,
		rec.MarketCap, rec.PERatio, rec.EPS, rec.DilutedEPSTTM, rec.RevenueTTM, rec.GrossProfitTTM,
		rec.DividendYieldPct, rec.ProfitMarginPct, rec.OperatingMarginPct,
		rec.ReturnOnAssetsPct, rec.ReturnOnEquityPct,
		rec.TransformedAt, time.Now().UTC(),
	)
	return err
}

func (l *Loader) upsertIndex(ctx context.Context, rec model.MetricsRecord) error {
	_, err := l.db.Exec(ctx, upsertIndexSQL,
		rec.Symbol, rec.Date, rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
		rec.Change7, rec.ChangePct7, rec.Change30, rec.ChangePct30, rec.Change90, rec.ChangePct90,
		rec.Volatility30,
		rec.TransformedAt, time.Now().UTC(),
	)
	return err
}
