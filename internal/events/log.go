// internal/events/log.go

package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the global logger.
type LogPublisher struct{}

// Publish logs the encoded envelope at info level.
func (LogPublisher) Publish(_ context.Context, typ string, data any) error {
	body, err := encode(typ, data)
	if err != nil {
		return err
	}
	zap.L().Info("event", zap.String("subject", SubjectPrefix+typ), zap.ByteString("body", body))
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }
