package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/manaable/leave-api/internal/core/ports"
)

// BreakerSettings configures BreakerNotifier. Zero values use defaults.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial send.
	OpenTimeout time.Duration
}

// BreakerNotifier stops hammering a failing sink: after MaxFailures
// consecutive errors it fails fast with gobreaker.ErrOpenState until
// OpenTimeout has passed.
type BreakerNotifier struct {
	next ports.Notifier
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerNotifier(next ports.Notifier, s BreakerSettings, log zerolog.Logger) *BreakerNotifier {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return &BreakerNotifier{next: next, cb: cb}
}

func (b *BreakerNotifier) Notify(ctx context.Context, to, subject, body string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Notify(ctx, to, subject, body)
	})
	return err
}

// State exposes the current breaker state.
func (b *BreakerNotifier) State() gobreaker.State {
	return b.cb.State()
}
