package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands audit events to the background worker through a bounded
// inbox. Emission never blocks the decision path: if the inbox is full the
// event is written synchronously so the exactly-once-per-resolution
// guarantee holds even under backpressure.
type Publisher struct {
	store  Store
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher builds a publisher over the given store. bufferSize bounds
// the inbox; 0 forces fully synchronous emission.
func NewPublisher(store Store, bufferSize int, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		inbox:  make(chan Event, bufferSize),
		logger: logger,
	}
}

// Emit queues an audit event, falling back to a synchronous append when the
// worker is behind.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit inbox full, appending synchronously",
			"action", event.Action,
			"session_id", event.SessionID,
		)
		return p.store.Append(ctx, event)
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }
