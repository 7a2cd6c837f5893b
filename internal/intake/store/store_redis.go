package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cotejo/internal/intake"
	id "cotejo/pkg/domain"
	"cotejo/pkg/platform/sentinel"
)

const sessionKeyPrefix = "intake:session:"

// RedisStore is the session store for multi-instance deployments. Sessions
// are JSON blobs under a TTL so abandoned sessions expire on their own,
// matching the discard-after-resolution lifecycle. Updates run under WATCH
// so two instances racing on the same session surface ErrConflict instead
// of silently losing a transition.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a redis-backed session store.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID id.SessionID) string {
	return sessionKeyPrefix + sessionID.String()
}

func (s *RedisStore) Create(ctx context.Context, session *intake.Session) error {
	session.Version = 1
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists: %w", session.ID, sentinel.ErrConflict)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var session intake.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *intake.Session) error {
	key := sessionKey(session.ID)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get session for update: %w", err)
		}
		var current intake.Session
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if current.Version != session.Version {
			return fmt.Errorf("session %s version %d (have %d): %w",
				session.ID, session.Version, current.Version, sentinel.ErrConflict)
		}
		next := *session
		next.Version = session.Version + 1
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}
	err := s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("session %s modified concurrently: %w", session.ID, sentinel.ErrConflict)
	}
	if err == nil {
		session.Version++
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	removed, err := s.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	return nil
}
