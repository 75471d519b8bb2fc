// Package notify is the port to the message-delivery channel used to alert
// a user when their goal weight is reached. The real SMS gateway lives
// outside this module; callers only see Deliver.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a short message to a destination address (a phone
// number for the SMS channel).
type Notifier interface {
	Deliver(ctx context.Context, destination, message string) error
}

// LogNotifier writes deliveries to the log instead of a real channel. It is
// the default when no gateway is configured, and doubles as the local dev
// transport.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Deliver(ctx context.Context, destination, message string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification delivered", "destination", destination, "message", message)
	return nil
}
