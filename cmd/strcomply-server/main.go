package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strcomply/strcomply/internal/api"
	"github.com/strcomply/strcomply/internal/config"
	"github.com/strcomply/strcomply/internal/health"
	"github.com/strcomply/strcomply/internal/logger"
	"github.com/strcomply/strcomply/internal/store"
	"github.com/strcomply/strcomply/internal/store/postgres"
	"github.com/strcomply/strcomply/internal/store/sqlite"
)

func main() {
	// Optional driver flag override (sqlite | postgres)
	dbDriver := flag.String("db-driver", "", "Override STRCOMPLY_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("strcomply-server")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("invalid db-driver override")
		}
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("compliance service starting")

	ctx := context.Background()

	st, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store unavailable")
	}

	// -------- Health monitor ---------------
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	svcChecker := health.NewServiceHealthChecker(log, storeChecker)
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	go storeChecker.Start(ctx, interval)
	go svcChecker.Start(ctx, interval)
	api.BindServiceHealth(svcChecker.IsHealthy)

	// -------- Router & Server --------------
	router := api.NewRouter(st)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		if err := postgres.Bootstrap(ctx, cfg.PostgresDSN); err != nil {
			return nil, err
		}
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	default:
		return sqlite.New(cfg.SQLitePath)
	}
}
