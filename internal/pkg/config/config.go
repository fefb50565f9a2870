// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`

	// StoreDriver selects the persistence backend: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	// CORSOrigins is a comma separated allow list; "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Notify NotifyConfig
	Leave  LeaveConfig
	Seed   SeedConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hr_leave"`
}

// RedisConfig is optional: an empty Addr disables notification dedup.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	DedupTTL time.Duration `env:"REDIS_DEDUP_TTL, default=24h"`
}

// SMTPConfig is optional: an empty Host logs notifications instead of mailing them.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=\"HR System\" <hr@manaable.com>"`
	TLS      bool   `env:"SMTP_TLS,  default=false"`
}

type NotifyConfig struct {
	Workers         int           `env:"NOTIFY_WORKERS,    default=4"`
	Buffer          int           `env:"NOTIFY_BUFFER,     default=256"`
	SendTimeout     time.Duration `env:"NOTIFY_SEND_TIMEOUT, default=30s"`
	Recipients      string        `env:"NOTIFY_RECIPIENTS, default=first-manager"`
	BreakerFailures uint32        `env:"NOTIFY_BREAKER_FAILURES, default=5"`
	BreakerTimeout  time.Duration `env:"NOTIFY_BREAKER_TIMEOUT, default=30s"`
}

type LeaveConfig struct {
	AllowRedecision bool `env:"LEAVE_ALLOW_REDECISION, default=false"`
}

// SeedConfig names the manager account created at startup when both fields are set.
type SeedConfig struct {
	ManagerEmail    string `env:"SEED_MANAGER_EMAIL"`
	ManagerPassword string `env:"SEED_MANAGER_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l. Tests pass envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver != StoreMongo && c.StoreDriver != StoreMemory {
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if (c.Seed.ManagerEmail == "") != (c.Seed.ManagerPassword == "") {
		return errors.New("SEED_MANAGER_EMAIL and SEED_MANAGER_PASSWORD must be set together")
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
