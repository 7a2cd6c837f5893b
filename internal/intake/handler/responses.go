package handler

import (
	"cotejo/internal/intake"
	"cotejo/internal/match"
)

type candidateView struct {
	LegajoID      string             `json:"legajoId"`
	LegajoLabel   string             `json:"legajoLabel"`
	Score         float64            `json:"score"`
	HasPermission bool               `json:"hasPermission"`
	CanLink       bool               `json:"canLink"`
	Comparisons   []match.Descriptor `json:"comparisons"`
}

type outcomeView struct {
	Kind                string  `json:"kind"`
	LinkedLegajoID      string  `json:"linkedLegajoId,omitempty"`
	Justification       string  `json:"justification,omitempty"`
	EscalationRequestID string  `json:"escalationRequestId,omitempty"`
	AcceptedScore       float64 `json:"acceptedScore"`
}

type sessionResponse struct {
	SessionID  string `json:"sessionId"`
	DemandaID  string `json:"demandaId"`
	Status     string `json:"status"`
	AlertLevel string `json:"alertLevel"`
	// RequiresDoubleConfirmation tells the front end to show the two-step
	// warning copy for this severity.
	RequiresDoubleConfirmation bool            `json:"requiresDoubleConfirmation"`
	Candidates                 []candidateView `json:"candidates"`
	SelectedLegajoID           string          `json:"selectedLegajoId,omitempty"`
	JustificationText          string          `json:"justificationText,omitempty"`
	// JustificationRemaining is the live character count after a
	// justification update, zero once the text is valid.
	JustificationRemaining int          `json:"justificationRemaining"`
	PermissionReason       string       `json:"permissionReason,omitempty"`
	PermissionKind         string       `json:"permissionKind,omitempty"`
	Outcome                *outcomeView `json:"outcome,omitempty"`
}

func newSessionResponse(session *intake.Session, justificationRemaining int) sessionResponse {
	resp := sessionResponse{
		SessionID:                  session.ID.String(),
		DemandaID:                  session.DemandaID.String(),
		Status:                     string(session.Status),
		AlertLevel:                 session.AlertLevel.String(),
		RequiresDoubleConfirmation: session.AlertLevel.RequiresDoubleConfirmation(),
		Candidates:                 make([]candidateView, 0, len(session.Candidates)),
		JustificationText:          session.JustificationText,
		JustificationRemaining:     justificationRemaining,
		PermissionReason:           session.PermissionReason,
		PermissionKind:             string(session.PermissionKind),
	}
	for _, candidate := range session.Candidates {
		resp.Candidates = append(resp.Candidates, candidateView{
			LegajoID:      candidate.LegajoID.String(),
			LegajoLabel:   candidate.LegajoLabel,
			Score:         candidate.Score,
			HasPermission: candidate.HasPermission,
			CanLink:       candidate.CanLink,
			Comparisons:   match.DescribeAll(candidate.Comparisons),
		})
	}
	if session.SelectedLegajoID != nil {
		resp.SelectedLegajoID = session.SelectedLegajoID.String()
	}
	if session.Outcome != nil {
		outcome := &outcomeView{
			Kind:          string(session.Outcome.Kind),
			AcceptedScore: session.Outcome.AcceptedScore,
			Justification: session.Outcome.Justification,
		}
		if !session.Outcome.LinkedLegajoID.IsNil() {
			outcome.LinkedLegajoID = session.Outcome.LinkedLegajoID.String()
		}
		if !session.Outcome.EscalationRequestID.IsNil() {
			outcome.EscalationRequestID = session.Outcome.EscalationRequestID.String()
		}
		resp.Outcome = outcome
	}
	return resp
}
