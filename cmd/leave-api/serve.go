package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manaable/leave-api/internal/api"
	"github.com/manaable/leave-api/internal/core/ports"
	"github.com/manaable/leave-api/internal/core/service"
	"github.com/manaable/leave-api/internal/pkg/config"
	"github.com/manaable/leave-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func runServe(parent context.Context) (err error) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "leave-api",
	})

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Seed.ManagerEmail != "" {
		created, err := service.SeedManager(ctx, a.auth, ports.RegisterInput{
			Email:    cfg.Seed.ManagerEmail,
			Password: cfg.Seed.ManagerPassword,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to seed manager account")
		} else if created {
			log.Info().Str("email", cfg.Seed.ManagerEmail).Msg("manager account created")
		}
	}

	// Workers outlive the signal context so queued mail drains on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	a.dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Auth:        a.auth,
		Leave:       a.leave,
		Pingers:     a.pingers,
		Log:         logger.Component("http"),
		CORSOrigins: cfg.CORSOrigins,
	})

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err = <-errc:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	a.dispatcher.Stop()
	if err := a.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing stores")
	}

	log.Info().Msg("server stopped")
	return err
}
