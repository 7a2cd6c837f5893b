package handler

import (
	"encoding/json"

	"cotejo/internal/intake/service"
	"cotejo/internal/match"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
)

type startSessionRequest struct {
	DemandaID     string            `json:"demandaId"`
	DemandPayload json.RawMessage   `json:"demandPayload"`
	Candidates    []match.Candidate `json:"candidates"`

	demandaID id.DemandaID
}

func (r *startSessionRequest) Validate() error {
	demandaID, err := id.ParseDemandaID(r.DemandaID)
	if err != nil {
		return err
	}
	r.demandaID = demandaID
	for _, candidate := range r.Candidates {
		if err := candidate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *startSessionRequest) toInput() service.StartSessionInput {
	return service.StartSessionInput{
		DemandaID:     r.demandaID,
		DemandPayload: r.DemandPayload,
		Candidates:    r.Candidates,
	}
}

type linkRequest struct {
	LegajoID string `json:"legajoId"`

	legajoID id.LegajoID
}

func (r *linkRequest) Validate() error {
	legajoID, err := id.ParseLegajoID(r.LegajoID)
	if err != nil {
		return err
	}
	r.legajoID = legajoID
	return nil
}

type justificationRequest struct {
	Text    string `json:"text"`
	Confirm bool   `json:"confirm"`
}

// Validate is intentionally permissive: short text is a workflow-level
// validation handled by the service so the draft is still saved.
func (r *justificationRequest) Validate() error { return nil }

type permissionRequest struct {
	LegajoID string `json:"legajoId,omitempty"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason"`

	legajoID *id.LegajoID
}

func (r *permissionRequest) Validate() error {
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "kind is required")
	}
	if r.LegajoID != "" {
		legajoID, err := id.ParseLegajoID(r.LegajoID)
		if err != nil {
			return err
		}
		r.legajoID = &legajoID
	}
	return nil
}
