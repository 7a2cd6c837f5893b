package audit

import "context"

// Store persists audit events. Implementations are append-only; there is
// deliberately no update or delete surface.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}
