package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ncss/coffeerun/internal/api"
	"github.com/ncss/coffeerun/internal/config"
	"github.com/ncss/coffeerun/internal/db"
	"github.com/ncss/coffeerun/internal/logger"
	"github.com/ncss/coffeerun/internal/observability"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/service"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Watch(configPath, func(reloaded *config.AppConfig) {
		logger.SetLevel(reloaded.Log.Level)
		zap.L().Info("config reloaded", zap.String("log_level", logger.Level().String()))
	})
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	flush, err := observability.InitSentry(conf.Sentry.DSN, conf.API.Environment, conf.Sentry.Release)
	if err != nil {
		return fmt.Errorf("failed to initialize sentry -> %w", err)
	}
	defer flush()

	loc, err := conf.API.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone -> %w", err)
	}

	flat, err := conf.Pricing.FlatAmount()
	if err != nil {
		return fmt.Errorf("failed to read pricing -> %w", err)
	}

	gormDB, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, gormDB, timefmt.New(loc), service.Pricing{
		Strategy: conf.Pricing.Strategy,
		Flat:     flat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go s.RunFeed(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr),
		zap.String("driver", conf.Database.Driver),
		zap.String("pricing", conf.Pricing.Strategy),
		zap.String("timezone", loc.String()),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
