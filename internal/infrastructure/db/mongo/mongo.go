package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes both leave API collections rely on.
// The unique email index is what makes duplicate registration fail.
func EnsureIndexes(ctx context.Context, users *UserRepository, leaves *LeaveRepository) error {
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := leaves.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("leave_records indexes: %w", err)
	}
	return nil
}

// Pinger reports MongoDB reachability for readiness probes.
type Pinger struct {
	client *mongo.Client
}

func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Name() string { return "mongodb" }

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
