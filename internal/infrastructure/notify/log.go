package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the log instead of sending them.
// It is used when no SMTP relay is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, to, subject, body string) error {
	n.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")
	return nil
}
