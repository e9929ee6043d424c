package events

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_EmptyURLIsLogOnly(t *testing.T) {
	p, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := p.(LogPublisher); !ok {
		t.Fatalf("New(\"\") = %T, want LogPublisher", p)
	}
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	data := map[string]string{"email": "fan@example.com"}
	if err := (LogPublisher{}).Publish(context.Background(), SubscriberCreated, data); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["subject"] != "linkbio.subscriber.created" {
		t.Fatalf("subject = %v", fields["subject"])
	}

	var env Envelope
	if err := json.Unmarshal([]byte(fields["body"].(string)), &env); err != nil {
		t.Fatalf("body is not an envelope: %v", err)
	}
	if env.Type != SubscriberCreated || env.ID == "" || env.OccurredAt.IsZero() {
		t.Fatalf("envelope = %+v", env)
	}
}
