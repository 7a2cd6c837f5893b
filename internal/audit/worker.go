package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher's inbox and persists
// them. It keeps background processing testable without wiring queue
// implementations into the decision path.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled. Store failures are
// logged and retried once; an event is never silently dropped without a
// log line.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed, retrying once",
					"action", event.Action,
					"session_id", event.SessionID,
					"error", err,
				)
				if err := w.store.Append(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit append failed permanently",
						"action", event.Action,
						"session_id", event.SessionID,
						"error", err,
					)
				}
			}
		}
	}
}
