// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobboard-api/internal/common/config"
	"jobboard-api/internal/common/database"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/common/observability"
	"jobboard-api/internal/jobs"
	"jobboard-api/internal/pricing"
	"jobboard-api/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting job board API...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the application ---
	searchIndex := jobs.NewSearchIndex(esClient.Client, cfg.Search.Index, log)
	if err := searchIndex.EnsureIndex(ctx); err != nil {
		// Search degrades to the SQL fallback; the API still serves.
		zapLog.Warn("search index setup failed", zap.Error(err))
	}

	engine := pricing.NewEngine(cfg.Pricing, log)
	store := jobs.NewStore(pg.GetDB(), log)
	cache := jobs.NewCache(redisClient.GetClient(),
		time.Duration(cfg.Similarity.CacheTTL)*time.Second, log)

	service := jobs.NewService(store, searchIndex, cache, engine, jobs.Options{
		CandidatePoolSize:  cfg.Similarity.CandidatePoolSize,
		SimilarLimit:       cfg.Similarity.DefaultLimit,
		SearchDefaultLimit: cfg.Search.DefaultLimit,
		SearchMaxLimit:     cfg.Search.MaxLimit,
	}, log)

	ready := func(ctx context.Context) error {
		if err := pg.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	}

	srv := server.New(cfg.Server, cfg.Auth.JWTSecret, service, ready, obs, log)

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
