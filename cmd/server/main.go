package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/bubblecrawl/ingest-gateway/config"
    "github.com/bubblecrawl/ingest-gateway/internal/api"
    "github.com/bubblecrawl/ingest-gateway/internal/api/handler"
    "github.com/bubblecrawl/ingest-gateway/internal/repository"
    "github.com/bubblecrawl/ingest-gateway/internal/service"
    "github.com/bubblecrawl/ingest-gateway/pkg/database"
    "github.com/bubblecrawl/ingest-gateway/pkg/logger"
    "github.com/bubblecrawl/ingest-gateway/pkg/tracing"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
    cfg := must(config.Load())

    if err := logger.Init(cfg.Log.Level); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx := context.Background()
    shutdownTracer := must(tracing.Init(ctx, cfg))
    defer func() { _ = shutdownTracer(ctx) }()

    db := must(database.InitDB(cfg))

    var cache *redis.Client
    var dedup service.Deduplicator
    if cfg.Redis.Enabled {
        cache = must(database.InitRedis(cfg))
        dedup = service.NewRedisDeduplicator(cache, cfg.Ingest.ReserveTTL, cfg.Ingest.StoredTTL)
    } else {
        // 只靠主键约束去重
        dedup = service.NewNopDeduplicator()
    }

    repo := repository.NewRecordRepository(db)
    ingestSvc := service.NewIngestService(service.NewValidator(), dedup, repo, cfg.Ingest)
    h := handler.New(ingestSvc, db, cache)

    srv := &http.Server{
        Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
        Handler:      api.NewRouter(cfg, h),
        ReadTimeout:  cfg.Server.ReadTimeout,
        WriteTimeout: cfg.Server.WriteTimeout,
    }

    go func() {
        logger.Info("ingest gateway listening", zap.Int("port", cfg.Server.Port))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("listen failed", zap.Error(err))
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Error("shutdown", zap.Error(err))
    }
    if cache != nil {
        _ = cache.Close()
    }
}
