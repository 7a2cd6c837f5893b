// Package escalation implements the permission-escalation sub-flow: when an
// operator needs to act on a legajo outside their zone, a structured request
// goes to the owning team and the intake session suspends on it.
package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cotejo/internal/match"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
	"cotejo/pkg/platform/sentinel"

	"github.com/google/uuid"
)

// Request is the escalation payload handed to the notification service.
// Owner metadata rides along only so the outgoing message can address the
// owning team; it plays no part in decision logic.
type Request struct {
	TargetLegajoID id.LegajoID     `json:"legajoId"`
	Kind           string          `json:"kind"`
	Reason         string          `json:"reason"`
	OperatorID     id.OperatorID   `json:"operatorId"`
	Owner          match.OwnerInfo `json:"-"`
}

// Notifier delivers the escalation request and returns its identifier. The
// session resolves as soon as the request is accepted; approval happens in
// the external system on its own schedule.
type Notifier interface {
	Submit(ctx context.Context, req Request) (id.EscalationRequestID, error)
}

// HTTPNotifier is the production notifier.
type HTTPNotifier struct {
	baseURL string
	http    *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{baseURL: baseURL, http: &http.Client{}}
}

func (n *HTTPNotifier) Submit(ctx context.Context, req Request) (id.EscalationRequestID, error) {
	body := struct {
		Request
		OwnerTeam  string `json:"ownerTeam"`
		OwnerZone  string `json:"ownerZone"`
		OwnerEmail string `json:"ownerEmail"`
	}{
		Request:    req,
		OwnerTeam:  req.Owner.TeamName,
		OwnerZone:  req.Owner.Zone,
		OwnerEmail: req.Owner.Email,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return id.EscalationRequestID{}, fmt.Errorf("marshal escalation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/escalations", bytes.NewReader(payload))
	if err != nil {
		return id.EscalationRequestID{}, fmt.Errorf("build escalation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(httpReq)
	if err != nil {
		return id.EscalationRequestID{}, fmt.Errorf("escalation dispatch: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			return id.EscalationRequestID{}, dErrors.Wrap(dErrors.CodeUnavailable,
				fmt.Sprintf("notifier returned status %d", resp.StatusCode), sentinel.ErrUnavailable)
		}
		return id.EscalationRequestID{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("notifier rejected escalation with status %d", resp.StatusCode))
	}

	var ack struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return id.EscalationRequestID{}, fmt.Errorf("decode escalation ack: %w", err)
	}
	parsed, err := uuid.Parse(ack.RequestID)
	if err != nil {
		return id.EscalationRequestID{}, fmt.Errorf("notifier returned malformed request id %q", ack.RequestID)
	}
	return id.EscalationRequestID(parsed), nil
}

// MockNotifier is a deterministic notifier for development and tests.
type MockNotifier struct {
	Err   error
	Calls []Request
}

func (m *MockNotifier) Submit(_ context.Context, req Request) (id.EscalationRequestID, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return id.EscalationRequestID{}, m.Err
	}
	return id.EscalationRequestID(uuid.New()), nil
}
