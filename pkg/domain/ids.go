package domain

import (
	"github.com/google/uuid"

	dErrors "cotejo/pkg/domain-errors"
)

// Typed IDs prevent cross-assignment between the identifier families this
// service handles. A LegajoID can never be passed where a DemandaID is
// expected; the compiler enforces it.
type (
	// LegajoID identifies a persistent case file in the external registry.
	LegajoID uuid.UUID
	// DemandaID identifies the incoming intake being resolved.
	DemandaID uuid.UUID
	// OperatorID identifies the authenticated operator acting on a session.
	OperatorID uuid.UUID
	// SessionID identifies one intake resolution session.
	SessionID uuid.UUID
	// EscalationRequestID identifies a submitted permission request.
	EscalationRequestID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+": "+s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be the nil UUID")
	}
	return u, nil
}

// ParseLegajoID validates and returns a LegajoID.
func ParseLegajoID(s string) (LegajoID, error) {
	u, err := parseUUID(s, "legajo id")
	return LegajoID(u), err
}

// ParseDemandaID validates and returns a DemandaID.
func ParseDemandaID(s string) (DemandaID, error) {
	u, err := parseUUID(s, "demanda id")
	return DemandaID(u), err
}

// ParseOperatorID validates and returns an OperatorID.
func ParseOperatorID(s string) (OperatorID, error) {
	u, err := parseUUID(s, "operator id")
	return OperatorID(u), err
}

// ParseSessionID validates and returns a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session id")
	return SessionID(u), err
}

// NewSessionID returns a fresh random SessionID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (i LegajoID) String() string  { return uuid.UUID(i).String() }
func (i LegajoID) IsNil() bool     { return uuid.UUID(i) == uuid.Nil }
func (i DemandaID) String() string { return uuid.UUID(i).String() }
func (i DemandaID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i OperatorID) String() string {
	return uuid.UUID(i).String()
}
func (i OperatorID) IsNil() bool   { return uuid.UUID(i) == uuid.Nil }
func (i SessionID) String() string { return uuid.UUID(i).String() }
func (i SessionID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }
func (i EscalationRequestID) String() string {
	return uuid.UUID(i).String()
}
func (i EscalationRequestID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }

// Defined types do not inherit uuid.UUID's method set, so each ID carries
// its own text marshaling to stay a canonical UUID string on the wire and
// in stores. Unmarshaling accepts the nil UUID so zero values round-trip;
// the strict Parse functions guard the API boundary.

func unmarshalUUID(b []byte, kind string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+": "+string(b))
	}
	return parsed, nil
}

func (i LegajoID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i *LegajoID) UnmarshalText(b []byte) error {
	parsed, err := unmarshalUUID(b, "legajo id")
	if err != nil {
		return err
	}
	*i = LegajoID(parsed)
	return nil
}

func (i DemandaID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i *DemandaID) UnmarshalText(b []byte) error {
	parsed, err := unmarshalUUID(b, "demanda id")
	if err != nil {
		return err
	}
	*i = DemandaID(parsed)
	return nil
}

func (i OperatorID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i *OperatorID) UnmarshalText(b []byte) error {
	parsed, err := unmarshalUUID(b, "operator id")
	if err != nil {
		return err
	}
	*i = OperatorID(parsed)
	return nil
}

func (i SessionID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i *SessionID) UnmarshalText(b []byte) error {
	parsed, err := unmarshalUUID(b, "session id")
	if err != nil {
		return err
	}
	*i = SessionID(parsed)
	return nil
}

func (i EscalationRequestID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
func (i *EscalationRequestID) UnmarshalText(b []byte) error {
	parsed, err := unmarshalUUID(b, "escalation request id")
	if err != nil {
		return err
	}
	*i = EscalationRequestID(parsed)
	return nil
}
