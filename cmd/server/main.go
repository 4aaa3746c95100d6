package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/finbook/ledger-system/internal/api"
	"github.com/finbook/ledger-system/internal/infrastructure/config"
	"github.com/finbook/ledger-system/internal/infrastructure/db/redis"
	"github.com/finbook/ledger-system/internal/infrastructure/db/sqlite"
	"github.com/finbook/ledger-system/pkg/logger"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- SQLite store + schema ---
	db, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("failed to open sqlite database")
	}
	defer db.Close()

	if err := sqlite.Ensure(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}
	log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store ready")

	// --- Optional Redis balance cache ---
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("balance cache enabled")
	}

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("ledger API starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
