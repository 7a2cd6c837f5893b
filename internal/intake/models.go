package intake

import (
	"encoding/json"
	"time"

	"cotejo/internal/match"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
)

// Status is the closed set of workflow states for one intake resolution
// session. It is a single tagged value, never a bag of booleans, so illegal
// combinations are unrepresentable.
type Status string

const (
	StatusIdle                      Status = "idle"
	StatusReviewing                 Status = "reviewing"
	StatusAwaitingJustification     Status = "awaiting_justification"
	StatusAwaitingFinalConfirmation Status = "awaiting_final_confirmation"
	StatusAwaitingPermission        Status = "awaiting_permission"
	StatusResolved                  Status = "resolved"
	StatusCancelled                 Status = "cancelled"
)

// IsTerminal reports whether the session can take no further action.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// OutcomeKind tags the resolution outcome.
type OutcomeKind string

const (
	OutcomeLinked              OutcomeKind = "linked"
	OutcomeForcedCreate        OutcomeKind = "forced_create"
	OutcomePermissionRequested OutcomeKind = "permission_requested"
)

// Outcome records how a session resolved. Exactly one of the kind-specific
// fields is populated, selected by Kind.
type Outcome struct {
	Kind OutcomeKind
	// LinkedLegajoID is set for OutcomeLinked.
	LinkedLegajoID id.LegajoID
	// Justification is set for OutcomeForcedCreate.
	Justification string
	// EscalationRequestID is set for OutcomePermissionRequested.
	EscalationRequestID id.EscalationRequestID
	// AcceptedScore is the primary candidate score that was accepted or
	// overridden. Carried on every outcome for the audit trail.
	AcceptedScore float64
}

// PermissionKind selects the escalation flavor.
type PermissionKind string

const (
	PermissionTemporaryAccess PermissionKind = "TemporaryAccess"
	PermissionTransfer        PermissionKind = "Transfer"
)

// ParsePermissionKind validates a permission kind from the wire.
func ParsePermissionKind(s string) (PermissionKind, error) {
	switch PermissionKind(s) {
	case PermissionTemporaryAccess, PermissionTransfer:
		return PermissionKind(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown permission kind: "+s)
}

// Session is the resolution state for one intake. The candidate list is a
// read-only ranked snapshot taken when the session was created; it is never
// re-fetched mid-workflow so the list cannot change under the operator.
type Session struct {
	ID         id.SessionID
	DemandaID  id.DemandaID
	OperatorID id.OperatorID

	// DemandPayload is the raw intake data, carried opaquely so terminal
	// dispatches can forward it to the registry unchanged.
	DemandPayload json.RawMessage

	Status     Status
	AlertLevel match.AlertLevel
	Candidates []match.Candidate

	// SelectedLegajoID points at the candidate currently being acted on.
	SelectedLegajoID *id.LegajoID

	// Draft text survives validation failures, back-outs, and failed
	// dispatches so the operator never retypes.
	JustificationText string
	PermissionReason  string
	PermissionKind    PermissionKind

	Outcome *Outcome

	// DispatchInFlight guards against double submission: at most one
	// terminal dispatch per session is ever in flight.
	DispatchInFlight bool
	// Generation is bumped on cancel. A dispatch completion whose
	// generation no longer matches is discarded without mutating state.
	Generation uint64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version supports optimistic concurrency in the session store.
	Version int64
}

// CandidateByID finds a candidate in the session snapshot.
func (s *Session) CandidateByID(legajoID id.LegajoID) (match.Candidate, bool) {
	for _, candidate := range s.Candidates {
		if candidate.LegajoID == legajoID {
			return candidate, true
		}
	}
	return match.Candidate{}, false
}

// SelectedCandidate resolves the currently selected candidate.
func (s *Session) SelectedCandidate() (match.Candidate, bool) {
	if s.SelectedLegajoID == nil {
		return match.Candidate{}, false
	}
	return s.CandidateByID(*s.SelectedLegajoID)
}

// PrimaryScore is the score of the primary candidate, 0 for empty sessions.
func (s *Session) PrimaryScore() float64 {
	primary, ok := match.Primary(s.Candidates)
	if !ok {
		return 0
	}
	return primary.Score
}
