package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/lodging-booking/internal/config"
	"github.com/iliyamo/lodging-booking/internal/database"
	"github.com/iliyamo/lodging-booking/internal/handler"
	"github.com/iliyamo/lodging-booking/internal/logging"
	"github.com/iliyamo/lodging-booking/internal/middleware"
	"github.com/iliyamo/lodging-booking/internal/queue"
	"github.com/iliyamo/lodging-booking/internal/repository"
	"github.com/iliyamo/lodging-booking/internal/router"
	"github.com/iliyamo/lodging-booking/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env", "local.env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db, dialect); err != nil {
		return err
	}

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	opts := []service.Option{service.WithLocation(cfg.Location())}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.RabbitURL, logger)))
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.EventLogPath, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}
	bookings := service.NewBookingService(repository.NewBookingRepo(db, dialect), opts...)

	e := router.New(router.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Cache:       middleware.NewRedisCache(cacheCfg, rdb),
		RateLimit:   middleware.NewTokenBucket(rlCfg, rdb),
	},
		handler.NewAuthHandler(cfg, repository.NewUserRepo(db)),
		handler.NewBookingHandler(bookings, rdb, cacheCfg.Prefix),
	)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env), slog.String("db", string(dialect)))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
