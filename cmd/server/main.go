package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"infinite-experiment/flightdeck/internal/api"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/jobs"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/routes"
	"infinite-experiment/flightdeck/internal/workers"
)

// @title Flightdeck API
// @version 1.0
// @description Flight instance scheduling, gate allocation and passenger booking.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Flightdeck starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.Database.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gormDB, err := db.InitORM(cfg.Database)
	if err != nil {
		logging.Fatal("Failed to connect database (GORM)", "driver", cfg.Database.Driver, "error", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err)
	}
	logging.Info("Connected database (GORM)", "driver", cfg.Database.Driver)

	sqlDB, err := db.InitSQL(cfg.Database, gormDB)
	if err != nil {
		logging.Fatal("Failed to connect database (sqlx)", "error", err)
	}
	logging.Info("Connected database (sqlx)")

	var cache common.CacheInterface
	if cfg.Redis.Enabled() {
		redisCache, err := common.NewRedisCacheService(cfg.Redis)
		if err != nil {
			logging.Fatal("Failed to connect Redis", "addr", cfg.Redis.Addr(), "error", err)
		}
		cache = redisCache
	} else {
		cache = common.NewCacheService(cfg.Cache.RouteTTL, 2*cfg.Cache.RouteTTL)
	}
	defer cache.Close()
	logging.Info("Cache ready", "backend", cache.Name())

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	deps := api.InitDependencies(cfg, gormDB, sqlDB, cache, metricsReg)

	upSince := time.Now()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           routes.RegisterRoutes(cfg, deps, prometheus.DefaultGatherer, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	jobs.InitializeJobs(gctx, g, gormDB, metricsReg, cfg.Utilisation.Interval)
	workers.InitWorkers(gctx, g, deps.Services.Routes, cfg.Cache.RouteTTL)

	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
