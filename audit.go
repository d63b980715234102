package accounts

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Severity grades an audit event
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// AuditEvent captures a lifecycle transition or failure. Events are
// transient and best effort; ordering relative to the operation response is
// unspecified.
type AuditEvent struct {
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditSink consumes audit events for telemetry purposes
type AuditSink interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// AuditSinkFunc adapts a function to the AuditSink interface.
type AuditSinkFunc func(ctx context.Context, event AuditEvent) error

// Publish implements AuditSink.
func (f AuditSinkFunc) Publish(ctx context.Context, event AuditEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopAuditSink struct{}

func (noopAuditSink) Publish(context.Context, AuditEvent) error {
	return nil
}

func normalizeAuditSink(s AuditSink) AuditSink {
	if s == nil {
		return noopAuditSink{}
	}
	return s
}

// ChannelSink buffers events on a channel so a host goroutine can forward
// them to a stream or broker. Publish never blocks: when the buffer is full
// the event is dropped, keeping the response path clear.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a ChannelSink with the given buffer capacity
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

// Publish implements AuditSink
func (s *ChannelSink) Publish(_ context.Context, event AuditEvent) error {
	select {
	case s.events <- event:
	default:
		// full buffer: drop, at-most-once delivery
	}
	return nil
}

// Events exposes the consuming end of the buffer
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes each event as a JSON line to w
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriterSink creates a JSONWriterSink that writes to w
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

// Publish implements AuditSink
func (s *JSONWriterSink) Publish(_ context.Context, event AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(event)
}
