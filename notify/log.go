package notify

import (
	"context"

	"go.uber.org/zap"
)

// Logging wraps a Notifier and records the outcome of every send. With a
// nil inner Notifier it logs the message and delivers nothing, which is
// handy for local development.
type Logging struct {
	inner  Notifier
	logger *zap.SugaredLogger
}

func NewLogging(inner Notifier, logger *zap.SugaredLogger) *Logging {
	return &Logging{
		inner:  inner,
		logger: logger,
	}
}

func (l *Logging) Send(ctx context.Context, msg Message) error {
	if l.inner == nil {
		l.logger.Infow("notification suppressed", "kind", msg.Kind, "to", msg.To, "language", msg.Language)
		return nil
	}

	err := l.inner.Send(ctx, msg)
	if err != nil {
		l.logger.Errorw("notification failed", "kind", msg.Kind, "to", msg.To, "error", err)
		return err
	}

	l.logger.Infow("notification sent", "kind", msg.Kind, "to", msg.To, "language", msg.Language)
	return nil
}
