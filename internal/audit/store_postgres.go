package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "cotejo/pkg/domain"
	"cotejo/pkg/platform/tx"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the
// sink; Kafka is the source of truth for the audit stream, the
// audit_events table is the queryable materialization.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL audit store that writes to the
// outbox.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// outboxPayload is the JSON structure published to Kafka. Field names match
// Event for proper deserialization by downstream consumers.
type outboxPayload struct {
	ID             string  `json:"ID"`
	Timestamp      string  `json:"Timestamp"`
	Action         string  `json:"Action"`
	SessionID      string  `json:"SessionID"`
	DemandaID      string  `json:"DemandaID"`
	OperatorID     string  `json:"OperatorID"`
	RequestID      string  `json:"RequestID,omitempty"`
	TargetLegajoID string  `json:"TargetLegajoID,omitempty"`
	AcceptedScore  float64 `json:"AcceptedScore"`
	Detail         string  `json:"Detail,omitempty"`
}

func toPayload(eventID uuid.UUID, event Event) outboxPayload {
	payload := outboxPayload{
		ID:            eventID.String(),
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
		Action:        string(event.Action),
		SessionID:     event.SessionID.String(),
		DemandaID:     event.DemandaID.String(),
		OperatorID:    event.OperatorID.String(),
		RequestID:     event.RequestID,
		AcceptedScore: event.AcceptedScore,
		Detail:        event.Detail,
	}
	if !event.TargetLegajoID.IsNil() {
		payload.TargetLegajoID = event.TargetLegajoID.String()
	}
	return payload
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Append writes an audit event to the outbox table for Kafka publishing.
// When the context carries a transaction the insert joins it, so callers
// can commit the outbox entry atomically with their own writes.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	eventID := uuid.New()
	payloadBytes, err := json.Marshal(toPayload(eventID, event))
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	var ex execer = s.db
	if t, ok := tx.From(ctx); ok {
		ex = t
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = ex.ExecContext(ctx, query,
		uuid.New(), // outbox entry ID
		"intake_session",
		event.SessionID.String(),
		string(event.Action),
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListBySession reads materialized events for one session, oldest first.
func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string) ([]Event, error) {
	query := `
		SELECT payload FROM audit_events
		WHERE aggregate_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event, err := fromPayload(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func fromPayload(raw []byte) (Event, error) {
	var payload outboxPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	event := Event{
		Action:        Action(payload.Action),
		RequestID:     payload.RequestID,
		AcceptedScore: payload.AcceptedScore,
		Detail:        payload.Detail,
	}
	if payload.Timestamp != "" {
		t, err := time.Parse(time.RFC3339Nano, payload.Timestamp)
		if err != nil {
			return Event{}, fmt.Errorf("parse audit timestamp: %w", err)
		}
		event.Timestamp = t
	}
	if err := assignIDs(&event, payload); err != nil {
		return Event{}, err
	}
	return event, nil
}

func assignIDs(event *Event, payload outboxPayload) error {
	parse := func(field, value string) (uuid.UUID, error) {
		if value == "" {
			return uuid.Nil, nil
		}
		u, err := uuid.Parse(value)
		if err != nil {
			return uuid.Nil, fmt.Errorf("parse audit %s: %w", field, err)
		}
		return u, nil
	}

	sessionID, err := parse("session id", payload.SessionID)
	if err != nil {
		return err
	}
	demandaID, err := parse("demanda id", payload.DemandaID)
	if err != nil {
		return err
	}
	operatorID, err := parse("operator id", payload.OperatorID)
	if err != nil {
		return err
	}
	legajoID, err := parse("legajo id", payload.TargetLegajoID)
	if err != nil {
		return err
	}

	event.SessionID = id.SessionID(sessionID)
	event.DemandaID = id.DemandaID(demandaID)
	event.OperatorID = id.OperatorID(operatorID)
	event.TargetLegajoID = id.LegajoID(legajoID)
	return nil
}
