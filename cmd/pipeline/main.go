package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jlenormand/equity-metrics/internal/archive"
	"github.com/jlenormand/equity-metrics/internal/config"
	"github.com/jlenormand/equity-metrics/internal/database"
	"github.com/jlenormand/equity-metrics/internal/extract"
	"github.com/jlenormand/equity-metrics/internal/load"
	"github.com/jlenormand/equity-metrics/internal/pipeline"
	"github.com/jlenormand/equity-metrics/internal/provider/alphavantage"
	"github.com/jlenormand/equity-metrics/internal/provider/fmp"
	"github.com/jlenormand/equity-metrics/internal/schedule"
	"github.com/jlenormand/equity-metrics/internal/transform"
	"github.com/jlenormand/equity-metrics/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pipeline",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"symbols", len(cfg.Pipeline.Symbols),
		"index_symbol", cfg.Pipeline.IndexSymbol,
		"cron", cfg.Schedule.Cron,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Metrics.Host,
		"port", cfg.Database.Metrics.Port,
		"database", cfg.Database.Metrics.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Metrics)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create provider clients
	stocks := alphavantage.NewClient(
		cfg.Providers.AlphaVantage.BaseURL,
		cfg.Providers.AlphaVantage.APIKey,
		alphavantage.WithLogger(logger),
		alphavantage.WithTimeout(cfg.Providers.AlphaVantage.Timeout),
		alphavantage.WithRetries(cfg.Providers.AlphaVantage.MaxRetries, time.Second),
	)
	index := fmp.NewClient(
		cfg.Providers.FMP.BaseURL,
		cfg.Providers.FMP.APIKey,
		fmp.WithLogger(logger),
		fmp.WithTimeout(cfg.Providers.FMP.Timeout),
		fmp.WithRetries(cfg.Providers.FMP.MaxRetries, time.Second),
	)

	var archiver extract.Archiver
	if cfg.Pipeline.ArchiveDir != "" {
		archiver = archive.NewWriter(cfg.Pipeline.ArchiveDir)
	}

	// Assemble the pipeline
	extractor := extract.New(extract.Config{
		Symbols:         cfg.Pipeline.Symbols,
		IndexSymbol:     cfg.Pipeline.IndexSymbol,
		RequestInterval: cfg.Pipeline.RequestInterval,
	}, stocks, index, archiver, logger)

	runner := pipeline.New(extractor, transform.NewEngine(), load.New(pool, logger), logger)

	if *once {
		res := runner.Run(ctx)
		if !res.Success {
			os.Exit(1)
		}
		return
	}

	// Scheduled mode
	sched, err := schedule.New(cfg.Schedule.Cron, func() { runner.Run(ctx) }, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	if cfg.Schedule.RunOnStart {
		logger.Info("run_on_start enabled, executing pipeline now")
		sched.TriggerNow()
	}

	sched.Start()
	logger.Info("pipeline running", "cron", cfg.Schedule.Cron)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")
	sched.Stop()
	logger.Info("pipeline stopped")
}
