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

	"github.com/scholarbridge/assistant-api/internal/api"
	"github.com/scholarbridge/assistant-api/internal/infrastructure/config"
	redisdb "github.com/scholarbridge/assistant-api/internal/infrastructure/db/redis"
	"github.com/scholarbridge/assistant-api/internal/infrastructure/db/sqlite"
	"github.com/scholarbridge/assistant-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("sqlite open failed")
	}
	defer db.Close()

	// EnsureSchema is idempotent; running it here keeps a fresh deployment
	// working even when cmd/bootstrap was never invoked.
	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("sqlite schema failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	e := api.NewRouter(cfg, db, rdb, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
