package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jlenormand/equity-metrics/internal/model"
)

// Extractor produces the raw batch for one run.
type Extractor interface {
	Run(ctx context.Context) (*model.RawBatch, error)
}

// Transformer computes metrics from a raw batch.
type Transformer interface {
	TransformBatch(b *model.RawBatch) *model.MetricsBatch
}

// Loader writes a metrics batch to storage.
type Loader interface {
	LoadBatch(ctx context.Context, b *model.MetricsBatch) model.LoadResult
}

// Runner drives the extract, transform, and load stages in order.
type Runner struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
}

// New creates a Runner. If logger is nil, slog.Default() is used.
func New(extractor Extractor, transformer Transformer, loader Loader, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
		logger:      logger,
	}
}

// Run executes one full pipeline run and reports the outcome through the
// returned result, never through an error or a panic. A whole-stage failure
// (today only extraction, on context cancellation) aborts the run with
// Success false; per-item failures are counted and leave Success true.
func (r *Runner) Run(ctx context.Context) (res model.RunResult) {
	res = model.RunResult{
		RunID:     uuid.New(),
		State:     model.StateIdle,
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With("run_id", res.RunID)

	defer func() {
		if p := recover(); p != nil {
			res.Success = false
			res.State = model.StateFailed
			res.Err = fmt.Sprintf("panic: %v", p)
		}
		res.FinishedAt = time.Now().UTC()
		if res.Success {
			logger.Info(res.Summary())
		} else {
			logger.Error(res.Summary())
		}
	}()

	logger.Info("starting pipeline run")

	res.State = model.StateExtracting
	logger.Debug("run state", "state", res.State)
	batch, err := r.extractor.Run(ctx)
	if err != nil {
		res.State = model.StateFailed
		res.Err = fmt.Sprintf("extract: %v", err)
		return res
	}
	res.Symbols = len(batch.Stocks)
	res.ExtractErrors = countExtractErrors(batch)

	res.State = model.StateTransforming
	logger.Debug("run state", "state", res.State)
	metrics := r.transformer.TransformBatch(batch)

	res.State = model.StateLoading
	logger.Debug("run state", "state", res.State)
	res.Load = r.loader.LoadBatch(ctx, metrics)

	res.State = model.StateDone
	res.Success = true
	return res
}

func countExtractErrors(b *model.RawBatch) int {
	n := 0
	for _, s := range b.Stocks {
		if s.Failed() {
			n++
		}
	}
	if b.Index.Failed() {
		n++
	}
	return n
}
