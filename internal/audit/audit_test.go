package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "cotejo/pkg/domain"
)

func testEvent() Event {
	return Event{
		Action:         ActionLinked,
		SessionID:      id.NewSessionID(),
		DemandaID:      id.DemandaID(uuid.New()),
		OperatorID:     id.OperatorID(uuid.New()),
		TargetLegajoID: id.LegajoID(uuid.New()),
		AcceptedScore:  0.95,
	}
}

func TestPublisher_EmitQueuesToInbox(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store, 4, slog.New(slog.DiscardHandler))

	event := testEvent()
	require.NoError(t, publisher.Emit(context.Background(), event))

	select {
	case queued := <-publisher.Inbox():
		assert.Equal(t, event.SessionID, queued.SessionID)
		assert.False(t, queued.Timestamp.IsZero(), "emission stamps the event")
	default:
		t.Fatal("expected event on the inbox")
	}
	assert.Empty(t, store.All(), "buffered emission must not hit the store directly")
}

func TestPublisher_FullInboxFallsBackToSynchronousAppend(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store, 0, slog.New(slog.DiscardHandler))

	event := testEvent()
	require.NoError(t, publisher.Emit(context.Background(), event))

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, event.SessionID, events[0].SessionID)
}

func TestPublisher_PreservesExplicitTimestamp(t *testing.T) {
	store := NewMemoryStore()
	publisher := NewPublisher(store, 0, slog.New(slog.DiscardHandler))

	stamped := testEvent()
	stamped.Timestamp = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Emit(context.Background(), stamped))

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, stamped.Timestamp, events[0].Timestamp)
}

func TestWorker_DrainsInbox(t *testing.T) {
	store := NewMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	publisher := NewPublisher(store, 8, logger)
	worker := NewWorker(store, publisher.Inbox(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = worker.Run(ctx)
	}()

	for range 3 {
		require.NoError(t, publisher.Emit(ctx, testEvent()))
	}

	require.Eventually(t, func() bool {
		return len(store.All()) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()
}

// failOnceStore fails the first append per event to exercise the retry.
type failOnceStore struct {
	inner  *MemoryStore
	mu     sync.Mutex
	failed map[id.SessionID]bool
}

func (s *failOnceStore) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.failed[event.SessionID] {
		s.failed[event.SessionID] = true
		return errors.New("transient append failure")
	}
	return s.inner.Append(ctx, event)
}

func (s *failOnceStore) ListBySession(ctx context.Context, sessionID string) ([]Event, error) {
	return s.inner.ListBySession(ctx, sessionID)
}

func TestWorker_RetriesFailedAppendOnce(t *testing.T) {
	store := &failOnceStore{inner: NewMemoryStore(), failed: make(map[id.SessionID]bool)}
	logger := slog.New(slog.DiscardHandler)
	publisher := NewPublisher(store, 8, logger)
	worker := NewWorker(store, publisher.Inbox(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	event := testEvent()
	require.NoError(t, publisher.Emit(ctx, event))

	require.Eventually(t, func() bool {
		return len(store.inner.All()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStore_ListBySession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := testEvent()
	second := testEvent()
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, first))

	events, err := store.ListBySession(ctx, first.SessionID.String())
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = store.ListBySession(ctx, second.SessionID.String())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
