// Package main is the entry point for the parcelhub API server.
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

	"parcelhub/internal/domain/distribution"
	"parcelhub/internal/domain/reports"
	v1 "parcelhub/internal/infrastructure/http/v1"
	"parcelhub/internal/infrastructure/storage/postgres"
	"parcelhub/internal/infrastructure/storage/postgres/distribution_repo"
	"parcelhub/internal/infrastructure/storage/postgres/report_repo"
	"parcelhub/pkg/logger"
	"parcelhub/pkg/numerator"
)

type config struct {
	Env                    string
	Port                   string
	LogLevel               string
	DatabaseURL            string
	DBMaxConns             int
	DBMinConns             int
	ShutdownTimeout        time.Duration
	NumberPrefix           string
	AuditCompressThreshold int
}

func loadConfig() config {
	return config{
		Env:                    getEnv("APP_ENV", "development"),
		Port:                   getEnv("APP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            mustEnv("DATABASE_URL"),
		DBMaxConns:             getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:             getEnvInt("DB_MIN_CONNS", 2),
		ShutdownTimeout:        getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		NumberPrefix:           getEnv("DISTRIBUTION_NUMBER_PREFIX", distribution.DefaultConfig().NumberPrefix),
		AuditCompressThreshold: getEnvInt("AUDIT_COMPRESS_THRESHOLD", postgres.DefaultCompressThreshold),
	}
}

func (c config) development() bool {
	return c.Env == "development"
}

func main() {
	cfg := loadConfig()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting parcelhub server", "env", cfg.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns >= 0 {
		poolCfg.MinConns = int32(cfg.DBMinConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	pool.LogStats(ctx)

	txManager := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txManager, cfg.AuditCompressThreshold)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	defer audit.Close()

	// --- Services ---
	// Numbers are allocated through the TxManager so they roll back with
	// the distribution that requested them.
	numbers := numerator.New(txManager)

	distributionService := distribution.NewService(
		distribution_repo.New(txManager),
		txManager,
		numbers,
		audit,
		distribution.Config{NumberPrefix: cfg.NumberPrefix},
	)
	reportsService := reports.NewService(report_repo.NewReportRepo(txManager), txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		DB:            pool,
		Distributions: distributionService,
		Reports:       reportsService,
		History:       audit,
		Debug:         cfg.development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
