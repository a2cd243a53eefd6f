package extract

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jlenormand/equity-metrics/internal/model"
)

// StockSource fetches daily bars and fundamentals for stock symbols.
type StockSource interface {
	GetDailySeries(ctx context.Context, symbol string) ([]model.PriceBar, error)
	GetOverview(ctx context.Context, symbol string) (model.FundamentalsSnapshot, error)
}

// IndexSource fetches the daily history of a market indicator.
type IndexSource interface {
	GetHistory(ctx context.Context, symbol string) ([]model.PriceBar, error)
}

// Archiver persists a finished batch. Archival is best-effort: the extractor
// logs a failure and moves on.
type Archiver interface {
	WriteBatch(batch *model.RawBatch) (string, error)
}

// Config holds extractor configuration.
type Config struct {
	Symbols         []string      // Stock tickers to extract
	IndexSymbol     string        // Market indicator ticker
	RequestInterval time.Duration // Minimum spacing between stock-provider requests
}

// Extractor fetches the configured symbol universe one request at a time.
type Extractor struct {
	cfg      Config
	stocks   StockSource
	index    IndexSource
	archiver Archiver
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates an Extractor. A nil archiver disables archival; a zero
// RequestInterval disables throttling.
func New(cfg Config, stocks StockSource, index IndexSource, archiver Archiver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:      cfg,
		stocks:   stocks,
		index:    index,
		archiver: archiver,
		limiter:  rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		logger:   logger,
	}
}

// Run fetches every configured stock plus the market indicator and returns
// the assembled batch. Per-item failures travel inside the batch as error
// series; the returned error is reserved for conditions that invalidate the
// whole stage, such as context cancellation.
func (e *Extractor) Run(ctx context.Context) (*model.RawBatch, error) {
	start := time.Now()

	batch := &model.RawBatch{
		Stocks:      make([]model.RawSeries, 0, len(e.cfg.Symbols)),
		ExtractedAt: start.UTC(),
	}

	var fetched, failed int
	for _, symbol := range e.cfg.Symbols {
		series := e.extractStock(ctx, symbol)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if series.Failed() {
			e.logger.Warn("failed to extract symbol",
				"symbol", symbol,
				"err", series.Err,
			)
			failed++
		} else {
			fetched++
		}
		batch.Stocks = append(batch.Stocks, series)
	}

	batch.Index = e.extractIndex(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if batch.Index.Failed() {
		e.logger.Warn("failed to extract index",
			"symbol", e.cfg.IndexSymbol,
			"err", batch.Index.Err,
		)
		failed++
	} else {
		fetched++
	}

	if e.archiver != nil {
		if path, err := e.archiver.WriteBatch(batch); err != nil {
			e.logger.Warn("failed to archive raw batch", "err", err)
		} else {
			e.logger.Debug("archived raw batch", "path", path)
		}
	}

	e.logger.Info("extraction complete",
		"symbols", len(e.cfg.Symbols)+1,
		"fetched", fetched,
		"errors", failed,
		"duration", time.Since(start),
	)

	return batch, nil
}

// extractStock fetches bars and fundamentals for one symbol. Either request
// failing degrades the whole symbol to an error series. Both requests pass
// through the rate gate; they hit the same provider.
func (e *Extractor) extractStock(ctx context.Context, symbol string) model.RawSeries {
	series := model.RawSeries{
		Symbol:      symbol,
		Kind:        model.KindStock,
		ExtractedAt: time.Now().UTC(),
	}

	if err := e.limiter.Wait(ctx); err != nil {
		series.Err = err.Error()
		return series
	}
	bars, err := e.stocks.GetDailySeries(ctx, symbol)
	if err != nil {
		series.Err = err.Error()
		return series
	}

	if err := e.limiter.Wait(ctx); err != nil {
		series.Err = err.Error()
		return series
	}
	fundamentals, err := e.stocks.GetOverview(ctx, symbol)
	if err != nil {
		series.Err = err.Error()
		return series
	}

	series.Bars = bars
	series.Fundamentals = fundamentals
	return series
}

// extractIndex fetches the indicator history. The single index request is
// not throttled; it goes to a different provider than the stock requests.
func (e *Extractor) extractIndex(ctx context.Context) model.RawSeries {
	series := model.RawSeries{
		Symbol:      e.cfg.IndexSymbol,
		Kind:        model.KindIndex,
		ExtractedAt: time.Now().UTC(),
	}

	bars, err := e.index.GetHistory(ctx, e.cfg.IndexSymbol)
	if err != nil {
		series.Err = err.Error()
		return series
	}

	series.Bars = bars
	return series
}
