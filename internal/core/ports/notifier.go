package ports

import "context"

// Notifier delivers a human-readable message to an email address.
// Delivery is best effort: callers log failures and carry on.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}
