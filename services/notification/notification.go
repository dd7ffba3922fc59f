package notification

import (
	"context"

	"fieldserve/utils"

	"go.uber.org/zap"
)

// Notifier is the outbound notification boundary. Delivery (email, SMS,
// push) is owned by an external system; this core only hands off messages.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier records notifications in the application log. It stands in for
// the real delivery collaborator in development and tests.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	utils.GetLogger().Info("notification dispatched",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
