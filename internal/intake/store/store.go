// Package store persists intake sessions for their working lifetime.
//
// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the session does not exist
// - Return sentinel.ErrConflict (wrapped) when an Update loses an
//   optimistic-concurrency race
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"

	"cotejo/internal/intake"
	id "cotejo/pkg/domain"
)

// Store persists sessions. Sessions live only as long as the workflow; the
// redis implementation enforces that with a TTL, the memory implementation
// by being process-local.
type Store interface {
	Create(ctx context.Context, session *intake.Session) error
	Get(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
	// Update persists a modified session. The session's Version must match
	// the stored one; on success the version is advanced.
	Update(ctx context.Context, session *intake.Session) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}
