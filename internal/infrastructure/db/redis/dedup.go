package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manaable/leave-api/internal/api/metrics"
)

const defaultDedupTTL = 24 * time.Hour

// NotificationDedup remembers which decisions were already mailed so the
// same decision does not email the owner twice. A later decision on the
// same record is a different key, even when it repeats a status.
// Key format: notify:<leave_id>:<status>:<decided_at_unix_nano>
type NotificationDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNotificationDedup wraps client. A non-positive ttl falls back to 24h.
func NewNotificationDedup(client *redis.Client, ttl time.Duration) *NotificationDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &NotificationDedup{client: client, ttl: ttl}
}

// Claim atomically records the decision and reports whether this caller was
// the first to do so.
func (d *NotificationDedup) Claim(ctx context.Context, leaveID, status string, decidedAt time.Time) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(leaveID, status, decidedAt), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	if ok {
		metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
	}
	return ok, nil
}

func (d *NotificationDedup) key(leaveID, status string, decidedAt time.Time) string {
	return fmt.Sprintf("notify:%s:%s:%d", leaveID, status, decidedAt.UnixNano())
}
