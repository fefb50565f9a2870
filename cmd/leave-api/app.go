package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/manaable/leave-api/internal/api/handler"
	"github.com/manaable/leave-api/internal/core/ports"
	"github.com/manaable/leave-api/internal/core/service"
	"github.com/manaable/leave-api/internal/infrastructure/db/memory"
	mongostore "github.com/manaable/leave-api/internal/infrastructure/db/mongo"
	redisstore "github.com/manaable/leave-api/internal/infrastructure/db/redis"
	"github.com/manaable/leave-api/internal/infrastructure/notify"
	"github.com/manaable/leave-api/internal/infrastructure/queue"
	"github.com/manaable/leave-api/internal/pkg/config"
)

// app holds every wired component so serve and seed-manager share one setup.
type app struct {
	users  ports.UserRepository
	leaves ports.LeaveRepository
	auth   *service.AuthService
	leave  *service.LeaveService

	dispatcher *queue.Dispatcher
	dedup      *redisstore.NotificationDedup
	pingers    []handler.Pinger
	closers    []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	if err := a.openStores(ctx, cfg, log); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	auth, err := service.NewAuthService(a.users, service.NewArgon2Hasher(), cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("auth service: %w", err)
	}
	a.auth = auth

	recipients, err := service.RecipientPolicyByName(cfg.Notify.Recipients)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("NOTIFY_RECIPIENTS: %w", err)
	}

	sink, err := newSink(cfg, log)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	a.dispatcher = queue.NewDispatcher(
		notify.NewBreakerNotifier(sink, notify.BreakerSettings{
			MaxFailures: cfg.Notify.BreakerFailures,
			OpenTimeout: cfg.Notify.BreakerTimeout,
		}, log),
		log.With().Str("component", "dispatcher").Logger(),
		queue.Options{
			Workers:     cfg.Notify.Workers,
			Buffer:      cfg.Notify.Buffer,
			SendTimeout: cfg.Notify.SendTimeout,
		},
	)

	opts := service.LeaveOptions{
		AllowRedecision: cfg.Leave.AllowRedecision,
		Recipients:      recipients,
	}
	if a.dedup != nil {
		opts.Dedup = a.dedup
	}
	a.leave = service.NewLeaveService(a.leaves, a.users, a.dispatcher, log.With().Str("component", "leave").Logger(), opts)

	return a, nil
}

func (a *app) openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		a.users = memory.NewUserRepository()
		a.leaves = memory.NewLeaveRepository()
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Disconnect)

		users := mongostore.NewUserRepository(db)
		leaves := mongostore.NewLeaveRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, leaves); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		a.users, a.leaves = users, leaves
		a.pingers = append(a.pingers, mongostore.NewPinger(client))
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, notification dedup disabled")
		return nil
	}
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	a.dedup = redisstore.NewNotificationDedup(rdb, cfg.Redis.DedupTTL)
	a.pingers = append(a.pingers, redisstore.NewPinger(rdb))
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
	return nil
}

func newSink(cfg *config.Config, log zerolog.Logger) (ports.Notifier, error) {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, notifications are written to the log")
		return notify.NewLogNotifier(log.With().Str("component", "notify").Logger()), nil
	}
	sink, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		TLS:      cfg.SMTP.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return sink, nil
}

// close releases connections in reverse order of opening.
func (a *app) close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
