// Package legajo holds the client for the external case registry, the
// collaborator that owns legajo persistence. This service only dispatches
// terminal actions to it; it never reads or writes legajos directly.
package legajo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
	"cotejo/pkg/platform/sentinel"
)

// LinkRequest asks the registry to attach the demanda to an existing
// legajo. ConfirmationOfDuplicate is always true: the operator has looked
// at the match and accepted it, and the registry records that fact.
type LinkRequest struct {
	LegajoID                id.LegajoID     `json:"legajoId"`
	DemandaID               id.DemandaID    `json:"demandaId"`
	DemandPayload           json.RawMessage `json:"demandPayload"`
	ConfirmationOfDuplicate bool            `json:"confirmationOfDuplicate"`
	AcceptedScore           float64         `json:"acceptedScore"`
}

// ForceCreateRequest asks the registry to create a new legajo despite the
// detected likely duplicate. The overridden score always travels with the
// request for audit purposes.
type ForceCreateRequest struct {
	IgnoredLegajoID id.LegajoID     `json:"ignoredLegajoId"`
	DemandaID       id.DemandaID    `json:"demandaId"`
	DemandPayload   json.RawMessage `json:"demandPayload"`
	AcceptedScore   float64         `json:"acceptedScore"`
	Justification   string          `json:"justification"`
}

// Client dispatches terminal actions to the case registry.
type Client interface {
	Link(ctx context.Context, req LinkRequest) error
	ForceCreate(ctx context.Context, req ForceCreateRequest) error
}

// HTTPClient is the production registry client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a registry client against the given base URL. The
// http.Client's timeout is left to the caller's context deadlines.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, http: &http.Client{}}
}

func (c *HTTPClient) Link(ctx context.Context, req LinkRequest) error {
	return c.post(ctx, "/legajos/"+req.LegajoID.String()+"/link", req)
}

func (c *HTTPClient) ForceCreate(ctx context.Context, req ForceCreateRequest) error {
	return c.post(ctx, "/legajos/force-create", req)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal registry request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build registry request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("registry dispatch: %w", sentinel.ErrUnavailable)
		}
		return fmt.Errorf("registry dispatch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Failure reasons from the registry are surfaced verbatim to the
	// operator, so decode the envelope rather than reporting a bare status.
	var envelope struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	reason := ""
	if json.Unmarshal(raw, &envelope) == nil && envelope.Description != "" {
		reason = envelope.Description
	} else if envelope.Error != "" {
		reason = envelope.Error
	} else {
		reason = fmt.Sprintf("registry returned status %d", resp.StatusCode)
	}

	if resp.StatusCode >= 500 {
		return dErrors.Wrap(dErrors.CodeUnavailable, reason, sentinel.ErrUnavailable)
	}
	return dErrors.New(dErrors.CodeConflict, reason)
}

// MockClient is a deterministic in-process registry for development and
// tests. Calls are recorded so tests can assert exactly one dispatch fired.
type MockClient struct {
	LinkErr        error
	ForceCreateErr error

	LinkCalls        []LinkRequest
	ForceCreateCalls []ForceCreateRequest
}

func (m *MockClient) Link(_ context.Context, req LinkRequest) error {
	m.LinkCalls = append(m.LinkCalls, req)
	return m.LinkErr
}

func (m *MockClient) ForceCreate(_ context.Context, req ForceCreateRequest) error {
	m.ForceCreateCalls = append(m.ForceCreateCalls, req)
	return m.ForceCreateErr
}
