package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"medgate/pkg/requestcontext"
)

// Publisher is the port domain services emit through. Emit must never block
// the business operation and must never fail it: notifications are
// fire-and-forget by contract.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// Sink receives finalized events. Implementations: the in-memory store and
// the Kafka producer.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// SinkPublisher finalizes events (id, timestamp, request correlation) and
// hands them to a sink, logging failures instead of propagating them.
type SinkPublisher struct {
	sink   Sink
	logger *slog.Logger
}

// NewPublisher wires a publisher over a sink.
func NewPublisher(sink Sink, logger *slog.Logger) *SinkPublisher {
	return &SinkPublisher{sink: sink, logger: logger}
}

func (p *SinkPublisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = CategoryOf(event.Action)
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)

	if err := p.sink.Append(ctx, event); err != nil && p.logger != nil {
		p.logger.ErrorContext(ctx, "notification dropped",
			"action", string(event.Action),
			"event_id", event.ID,
			"error", err,
		)
	}
}

// NopPublisher discards every event. Tests that don't assert on
// notifications use it.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) {}
