package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attune-labs/credence/internal/alert"
	"github.com/attune-labs/credence/internal/api"
	"github.com/attune-labs/credence/internal/config"
	"github.com/attune-labs/credence/internal/domain"
	"github.com/attune-labs/credence/internal/scoring"
	"github.com/attune-labs/credence/internal/service"
	"github.com/attune-labs/credence/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	backend, err := scoring.NewClient(config.ScoringProvider(), config.ScoringURL())
	if err != nil {
		logger.Fatal("failed to initialize scoring backend", zap.Error(err))
	}
	logger.Info("scoring backend initialized", zap.String("provider", config.ScoringProvider()))

	var (
		beliefStore    domain.HistoryStore
		sentimentStore domain.HistoryStore
		riskStore      domain.HistoryStore
		beliefIndex    domain.BeliefIndex
		pinger         api.Pinger
	)

	switch driver := config.StorageDriver(); driver {
	case "postgres":
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			logger.Fatal("DATABASE_URL is required for the postgres storage driver")
		}

		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		beliefStore, err = store.NewPostgresHistoryStore(ctx, pool, store.TableBeliefHistory)
		if err != nil {
			logger.Fatal("failed to open belief history store", zap.Error(err))
		}
		sentimentStore, err = store.NewPostgresHistoryStore(ctx, pool, store.TableSentimentHistory)
		if err != nil {
			logger.Fatal("failed to open sentiment history store", zap.Error(err))
		}
		riskStore, err = store.NewPostgresHistoryStore(ctx, pool, store.TableRiskHistory)
		if err != nil {
			logger.Fatal("failed to open risk history store", zap.Error(err))
		}

		idx, err := store.NewPostgresBeliefIndex(ctx, pool)
		if err != nil {
			logger.Fatal("failed to open belief index", zap.Error(err))
		}
		beliefIndex = idx
		pinger = pool

	case "sqlite":
		db, err := store.OpenSQLite(config.SQLitePath())
		if err != nil {
			logger.Fatal("failed to open sqlite database", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		logger.Info("opened sqlite database", zap.String("path", config.SQLitePath()))

		beliefStore, err = db.HistoryStore(store.TableBeliefHistory)
		if err != nil {
			logger.Fatal("failed to open belief history store", zap.Error(err))
		}
		sentimentStore, err = db.HistoryStore(store.TableSentimentHistory)
		if err != nil {
			logger.Fatal("failed to open sentiment history store", zap.Error(err))
		}
		riskStore, err = db.HistoryStore(store.TableRiskHistory)
		if err != nil {
			logger.Fatal("failed to open risk history store", zap.Error(err))
		}
		pinger = db

	default:
		logger.Fatal("unknown storage driver", zap.String("driver", driver))
	}

	extractor := service.NewExtractor(config.BotUserID(), config.BeliefMarkers())
	analyzer := service.NewAnalyzer(
		backend,
		extractor,
		beliefStore, sentimentStore, riskStore,
		config.BeliefCategories(), config.RiskCategories(),
		config.SelfCategory(),
		logger,
	)
	if beliefIndex != nil {
		analyzer.SetBeliefIndex(beliefIndex)
	}

	if natsURL := config.NatsURL(); natsURL != "" {
		publisher, err := alert.NewPublisher(natsURL, config.RiskAlertThreshold(), logger)
		if err != nil {
			logger.Warn("risk alert publisher initialization failed", zap.Error(err))
		} else {
			defer publisher.Close()
			analyzer.SetRiskAlerter(publisher)
			logger.Info("risk alert publisher initialized", zap.String("url", natsURL))
		}
	}

	historySvc := service.NewHistoryService(beliefStore, sentimentStore, riskStore)

	warmUpBackend(ctx, backend, logger)

	app := api.NewApp(api.Deps{
		Analyzer:    analyzer,
		History:     historySvc,
		Backend:     backend,
		BeliefIndex: beliefIndex,
		Pinger:      pinger,
		Logger:      logger,
	})

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// warmUpBackend issues one throwaway classify so the sidecar loads its
// models before the first real request lands. Failure is logged, not fatal:
// the sidecar may still be starting.
func warmUpBackend(ctx context.Context, backend domain.ScoringBackend, logger *zap.Logger) {
	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	if _, err := backend.Classify(warmCtx, "warm up", config.BeliefCategories(), false); err != nil {
		logger.Warn("scoring backend warm-up failed", zap.Error(err))
		return
	}
	logger.Info("scoring backend warmed up", zap.Duration("duration", time.Since(start)))
}
