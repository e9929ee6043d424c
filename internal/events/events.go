// internal/events/events.go
//
// Outbound domain events.
//
// Context
//   linkbio does not call email-marketing or calendar providers itself.
//   Handlers publish a small JSON envelope instead, and an external worker
//   subscribed to `linkbio.>` forwards it using the stored integration
//   config.  With no broker configured the envelope is only logged, so
//   development and tests need no NATS server.
//
// Workflow
//   •  New(url)                 → NATS publisher, or log-only when url is "".
//   •  Publish(ctx, type, data) → subject "linkbio.<type>", body Envelope.
//   •  Close()                  → drain the connection on shutdown.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubjectPrefix is prepended to every event type.
const SubjectPrefix = "linkbio."

// Event types.
const (
	SubscriberCreated = "subscriber.created"
	BookingCreated    = "booking.created"
	BookingCancelled  = "booking.cancelled"
	LinkClicked       = "link.clicked"
	DomainVerified    = "domain.verified"
)

// Envelope is the wire body of every event.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher sends events.  Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, typ string, data any) error
	Close() error
}

// New returns a NATS publisher for url, or a log-only publisher when url is
// empty.
func New(url string) (Publisher, error) {
	if url == "" {
		return LogPublisher{}, nil
	}
	return Connect(url)
}

func encode(typ string, data any) ([]byte, error) {
	return json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
}
