package audit

import (
	"time"

	id "cotejo/pkg/domain"
)

// Action names the terminal outcome an audit event records.
type Action string

const (
	ActionLinked              Action = "intake_linked"
	ActionForcedCreate        Action = "intake_forced_create"
	ActionPermissionRequested Action = "intake_permission_requested"
	ActionCancelled           Action = "intake_cancelled"
)

// Event is one immutable audit record. Exactly one compliance event is
// emitted per resolved session, capturing who decided, what they decided,
// and the score they accepted or overrode. Events are append-only and never
// mutated after emission.
type Event struct {
	Timestamp  time.Time
	Action     Action
	SessionID  id.SessionID
	DemandaID  id.DemandaID
	OperatorID id.OperatorID
	RequestID  string

	// TargetLegajoID is the linked, ignored, or escalated legajo.
	TargetLegajoID id.LegajoID
	// AcceptedScore is the primary candidate score in force when the
	// decision was taken.
	AcceptedScore float64
	// Detail carries the justification or escalation reason verbatim when
	// the outcome required one.
	Detail string
}
