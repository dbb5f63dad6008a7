// Command httpd runs the matcher HTTP service: transcript quality gating,
// single-mention matching and bulk catalog sweeps over one store's catalog.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storelens/matcher/internal/api"
	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/config"
	"github.com/storelens/matcher/internal/database"
	"github.com/storelens/matcher/internal/logging"
	"github.com/storelens/matcher/internal/matching"
	"github.com/storelens/matcher/internal/processor"
	"github.com/storelens/matcher/internal/quality"
	"github.com/storelens/matcher/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	zlog, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer zlog.Sync() //nolint:errcheck // stderr sync failure at exit

	logger := logging.NewAdapter(zlog)
	logger.Info("starting matcher service",
		"version", cfg.Service.Version,
		"port", cfg.Service.Port,
		"store", cfg.Service.Store,
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema init failed", "error", err)
		os.Exit(1)
	}

	catalogRepo := database.NewCatalogRepository(db)
	matchRepo := database.NewMatchRepository(db)

	entries, err := catalogRepo.LoadSnapshot(ctx, cfg.Service.Store)
	if err != nil {
		logger.Error("catalog load failed", "store", cfg.Service.Store, "error", err)
		os.Exit(1)
	}

	indexConfig := catalog.IndexConfig{
		MinMatchScore:       cfg.Matching.MinMatchScore,
		MaxProductsPerVideo: cfg.Matching.MaxProductsPerVideo,
	}
	snap := catalog.NewSnapshot(entries, indexConfig, logger)

	tp := telemetry.NewProvider()
	tp.RecordIndexBuild(snap.Index().EntryCount(), snap.Index().KeywordCount())

	gate := quality.NewGateWithMinLength(logger, cfg.Matching.MinTranscriptLength)
	engine := matching.NewEngine(logger, matching.Config{
		MatchThreshold:  cfg.Matching.MatchThreshold,
		ReviewThreshold: cfg.Matching.ReviewThreshold,
	})
	limiter := processor.NewRateLimiter(cfg.Service.SweepRPS, 0, logger)
	sweeper := processor.NewSweeper(cfg.Service.Concurrency, limiter, tp, logger)

	handler := api.NewHandler(
		gate, engine, sweeper,
		catalogRepo, matchRepo,
		tp, logger,
		cfg.Service.Store, indexConfig, snap,
	)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tp)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
