package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotejo/internal/intake"
	id "cotejo/pkg/domain"
	"cotejo/pkg/platform/sentinel"
)

func newTestSession(t *testing.T) *intake.Session {
	t.Helper()
	return &intake.Session{
		ID:         id.NewSessionID(),
		DemandaID:  id.DemandaID(uuid.New()),
		OperatorID: id.OperatorID(uuid.New()),
		Status:     intake.StatusReviewing,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)

	require.NoError(t, s.Create(ctx, session))
	assert.Equal(t, int64(1), session.Version)

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, intake.StatusReviewing, got.Status)
	assert.Equal(t, int64(1), got.Version)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)

	require.NoError(t, s.Create(ctx, session))
	err := s.Create(ctx, session)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), id.NewSessionID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)
	require.NoError(t, s.Create(ctx, session))

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	got.Status = intake.StatusCancelled
	got.JustificationText = "mutated locally"

	again, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, intake.StatusReviewing, again.Status)
	assert.Empty(t, again.JustificationText)
}

func TestMemoryStore_UpdateIncrementsVersion(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)
	require.NoError(t, s.Create(ctx, session))

	session.Status = intake.StatusAwaitingJustification
	require.NoError(t, s.Update(ctx, session))
	assert.Equal(t, int64(2), session.Version)

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, intake.StatusAwaitingJustification, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestMemoryStore_UpdateVersionConflict(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)
	require.NoError(t, s.Create(ctx, session))

	stale, err := s.Get(ctx, session.ID)
	require.NoError(t, err)

	session.Status = intake.StatusAwaitingJustification
	require.NoError(t, s.Update(ctx, session))

	stale.Status = intake.StatusCancelled
	err = s.Update(ctx, stale)
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	got, err := s.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, intake.StatusAwaitingJustification, got.Status)
}

func TestMemoryStore_UpdateNotFound(t *testing.T) {
	s := NewMemory()
	session := newTestSession(t)
	err := s.Update(context.Background(), session)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := newTestSession(t)
	require.NoError(t, s.Create(ctx, session))

	require.NoError(t, s.Delete(ctx, session.ID))
	_, err := s.Get(ctx, session.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	err = s.Delete(ctx, session.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
