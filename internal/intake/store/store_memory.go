package store

import (
	"context"
	"fmt"
	"sync"

	"cotejo/internal/intake"
	id "cotejo/pkg/domain"
	"cotejo/pkg/platform/sentinel"
)

// MemoryStore keeps sessions in memory. This is the default deployment
// shape: one instance owns its sessions, and a session that outlives the
// process was abandoned anyway.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*intake.Session
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[id.SessionID]*intake.Session)}
}

func (s *MemoryStore) Create(_ context.Context, session *intake.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists: %w", session.ID, sentinel.ErrConflict)
	}
	session.Version = 1
	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID id.SessionID) (*intake.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	return clone(session), nil
}

func (s *MemoryStore) Update(_ context.Context, session *intake.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[session.ID]
	if !ok {
		return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrNotFound)
	}
	if current.Version != session.Version {
		return fmt.Errorf("session %s version %d (have %d): %w",
			session.ID, session.Version, current.Version, sentinel.ErrConflict)
	}
	session.Version++
	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	delete(s.sessions, sessionID)
	return nil
}

// clone keeps callers from mutating stored state through shared pointers.
func clone(session *intake.Session) *intake.Session {
	copied := *session
	copied.DemandPayload = append(session.DemandPayload[:0:0], session.DemandPayload...)
	copied.Candidates = append(session.Candidates[:0:0], session.Candidates...)
	if session.SelectedLegajoID != nil {
		selected := *session.SelectedLegajoID
		copied.SelectedLegajoID = &selected
	}
	if session.Outcome != nil {
		outcome := *session.Outcome
		copied.Outcome = &outcome
	}
	return &copied
}
