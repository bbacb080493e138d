// Command server runs the governance API: pipeline runs, on-demand quality
// validation, catalog and lineage reads. Backends are optional; with no
// Postgres, Redis, or Kafka configured everything runs in process.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"datagov/internal/access"
	"datagov/internal/audit"
	"datagov/internal/catalog"
	"datagov/internal/lineage"
	"datagov/internal/pipeline"
	"datagov/internal/platform/config"
	"datagov/internal/platform/httpserver"
	"datagov/internal/platform/logger"
	"datagov/internal/platform/metrics"
	"datagov/internal/platform/middleware"
	"datagov/internal/platform/redis"
	httptransport "datagov/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
	}

	catalogStore, lineageStore, auditStore, err := buildStores(ctx, db)
	if err != nil {
		log.Error("prepare stores", "error", err.Error())
		os.Exit(1)
	}

	cache, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	auditor, closeAudit, err := buildAuditor(ctx, cfg, auditStore, log)
	if err != nil {
		log.Error("prepare audit publisher", "error", err.Error())
		os.Exit(1)
	}
	defer closeAudit()

	catalogSvc, err := catalog.New(catalogStore, catalog.WithLogger(log))
	if err != nil {
		log.Error("build catalog service", "error", err.Error())
		os.Exit(1)
	}
	tracker, err := lineage.NewTracker(lineageStore)
	if err != nil {
		log.Error("build lineage tracker", "error", err.Error())
		os.Exit(1)
	}

	controller := access.NewController()
	pipelineSvc, err := pipeline.New(pipeline.Config{
		PolicyPath:   cfg.PolicyPath,
		RawDir:       cfg.RawDir,
		ProcessedDir: cfg.ProcessedDir,
		LogsDir:      cfg.LogsDir,
	}, catalogSvc, controller, tracker, auditor,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(metrics.New()),
	)
	if err != nil {
		log.Error("build pipeline service", "error", err.Error())
		os.Exit(1)
	}
	if err := pipelineSvc.Setup(ctx); err != nil {
		log.Error("load governance policies", "error", err.Error(), "path", cfg.PolicyPath)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(
		pipelineSvc, catalogSvc, tracker, controller, log,
		httptransport.WithReportCache(cache),
	)
	router := httptransport.NewRouter(handler,
		middleware.NewJWTVerifier(cfg.JWTSigningKey), access.NewAccounts())

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildStores returns Postgres-backed stores when a database is configured,
// in-memory stores otherwise.
func buildStores(ctx context.Context, db *sql.DB) (catalog.Store, lineage.Store, audit.Store, error) {
	if db == nil {
		return catalog.NewInMemoryStore(), lineage.NewInMemoryStore(), audit.NewInMemoryStore(), nil
	}

	catalogStore := catalog.NewPostgresStore(db)
	if err := catalogStore.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}
	lineageStore := lineage.NewPostgresStore(db)
	if err := lineageStore.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}
	auditStore := audit.NewPostgresStore(db)
	if err := auditStore.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}
	return catalogStore, lineageStore, auditStore, nil
}

// buildAuditor always writes the durable store; when Kafka brokers are
// configured events fan out to the audit topic as well.
func buildAuditor(ctx context.Context, cfg config.Server, store audit.Store, log *slog.Logger) (audit.Publisher, func(), error) {
	storePub, err := audit.NewStorePublisher(store, audit.WithStoreLogger(log))
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return storePub, func() {}, nil
	}

	kafkaPub, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, audit.WithKafkaLogger(log))
	if err != nil {
		return nil, nil, err
	}
	fanout := audit.NewFanout(storePub, kafkaPub)
	return fanout, func() { _ = fanout.Close() }, nil
}
