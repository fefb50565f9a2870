package main

import (
	"context"
	"fmt"

	"github.com/manaable/leave-api/internal/core/ports"
	"github.com/manaable/leave-api/internal/core/service"
	"github.com/manaable/leave-api/internal/pkg/config"
	"github.com/manaable/leave-api/pkg/logger"
)

type seedInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Department string
}

func runSeedManager(ctx context.Context, in seedInput) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "leave-api",
	})
	if cfg.StoreDriver == config.StoreMemory {
		return fmt.Errorf("seed-manager needs a persistent store, STORE_DRIVER is %q", cfg.StoreDriver)
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.close(context.Background()) }()

	created, err := service.SeedManager(ctx, a.auth, ports.RegisterInput{
		Email:      in.Email,
		Password:   in.Password,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
	})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", in.Email).Msg("manager account created")
	} else {
		log.Info().Str("email", in.Email).Msg("account already exists, nothing to do")
	}
	return nil
}
