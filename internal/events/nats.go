// internal/events/nats.go
//
// NATS-backed Publisher.  Core NATS is fire-and-forget; the connection
// reconnects forever and buffers while disconnected, so Publish only fails
// when the buffer is full or the connection is closed.

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes envelopes on subjects under SubjectPrefix.
type NATSPublisher struct {
	nc *nats.Conn
}

// Connect dials url with unlimited reconnects.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("linkbio"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			zap.L().Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			zap.L().Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// Publish encodes data and sends it on SubjectPrefix+typ.
func (p *NATSPublisher) Publish(ctx context.Context, typ string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(typ, data)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectPrefix+typ, body)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
