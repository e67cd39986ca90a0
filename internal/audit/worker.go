package audit

import (
	"context"
	"log/slog"
)

// Worker drains an event channel into a sink. It decouples bursty emitters
// from a sink that may be slow (Kafka under backpressure) while keeping the
// background processing testable.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes until the context is canceled. Append failures are logged and
// the event dropped; notifications are fire-and-forget end to end.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "notification append failed",
					"action", string(event.Action),
					"event_id", event.ID,
					"error", err,
				)
			}
		}
	}
}

// ChannelPublisher finalizes events like SinkPublisher but hands them to a
// Worker via a buffered channel, dropping on overflow instead of blocking
// the emitting operation.
type ChannelPublisher struct {
	base  *SinkPublisher
	inbox chan Event
}

// NewChannelPublisher builds the publisher/worker pair around a buffered
// channel of the given capacity.
func NewChannelPublisher(sink Sink, capacity int, logger *slog.Logger) (*ChannelPublisher, *Worker) {
	inbox := make(chan Event, capacity)
	p := &ChannelPublisher{
		base:  NewPublisher(chanSink(inbox), logger),
		inbox: inbox,
	}
	return p, NewWorker(sink, inbox, logger)
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) {
	p.base.Emit(ctx, event)
}

// chanSink adapts a channel to the Sink interface with drop-on-overflow.
type chanSink chan Event

func (c chanSink) Append(_ context.Context, event Event) error {
	select {
	case c <- event:
		return nil
	default:
		return ErrInboxFull
	}
}
