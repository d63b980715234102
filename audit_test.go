package accounts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func sampleEvent(msg string) accounts.AuditEvent {
	return accounts.AuditEvent{
		Severity:   accounts.SeverityInfo,
		Message:    msg,
		Origin:     "accounts.test",
		OccurredAt: time.Now(),
	}
}

func TestChannelSink(t *testing.T) {
	ctx := context.Background()

	t.Run("buffers published events in order", func(t *testing.T) {
		sink := accounts.NewChannelSink(4)

		assert.NoError(t, sink.Publish(ctx, sampleEvent("first")))
		assert.NoError(t, sink.Publish(ctx, sampleEvent("second")))

		assert.Equal(t, "first", (<-sink.Events()).Message)
		assert.Equal(t, "second", (<-sink.Events()).Message)
	})

	t.Run("drops events instead of blocking when full", func(t *testing.T) {
		sink := accounts.NewChannelSink(1)

		assert.NoError(t, sink.Publish(ctx, sampleEvent("kept")))
		assert.NoError(t, sink.Publish(ctx, sampleEvent("dropped")))

		assert.Equal(t, "kept", (<-sink.Events()).Message)
		select {
		case e := <-sink.Events():
			t.Fatalf("expected overflow event to be dropped, got %q", e.Message)
		default:
		}
	})

	t.Run("normalizes a non positive buffer", func(t *testing.T) {
		sink := accounts.NewChannelSink(0)
		assert.NoError(t, sink.Publish(ctx, sampleEvent("only")))
		assert.Equal(t, "only", (<-sink.Events()).Message)
	})
}

func TestJSONWriterSink(t *testing.T) {
	ctx := context.Background()

	t.Run("writes one JSON line per event", func(t *testing.T) {
		var buf bytes.Buffer
		sink := accounts.NewJSONWriterSink(&buf)

		event := sampleEvent("alice Has Successfully Been Registered")
		event.Severity = accounts.SeverityWarn
		assert.NoError(t, sink.Publish(ctx, event))

		var decoded accounts.AuditEvent
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, accounts.SeverityWarn, decoded.Severity)
		assert.Equal(t, event.Message, decoded.Message)
		assert.Equal(t, "accounts.test", decoded.Origin)
	})
}

func TestAuditSinkFunc(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the wrapped function", func(t *testing.T) {
		var got accounts.AuditEvent
		sink := accounts.AuditSinkFunc(func(_ context.Context, event accounts.AuditEvent) error {
			got = event
			return nil
		})

		assert.NoError(t, sink.Publish(ctx, sampleEvent("delegated")))
		assert.Equal(t, "delegated", got.Message)
	})

	t.Run("a nil func is a no-op", func(t *testing.T) {
		var sink accounts.AuditSinkFunc
		assert.NoError(t, sink.Publish(ctx, sampleEvent("ignored")))
	})
}

func TestAuditFailuresStayOutOfBand(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	failing := accounts.AuditSinkFunc(func(context.Context, accounts.AuditEvent) error {
		return goerrors.New("broker unavailable", goerrors.CategoryOperation)
	})

	auther := newTestAuther(store).WithAuditSink(failing)

	res, err := auther.Register(ctx, registration())
	assert.NoError(t, err)
	assert.False(t, res.Error)
	assert.Equal(t, accounts.MsgCheckEmail, res.Message)
}
