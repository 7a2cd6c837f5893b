package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator clients
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: session or record does not exist in the store
// - ErrConflict: concurrent modification detected (version/WATCH mismatch)
// - ErrExpired: session TTL elapsed
// - ErrInvalidState: session in wrong state for the requested transition
// - ErrDispatchPending: a terminal dispatch is already in flight
// - ErrUnavailable: collaborator or store temporarily unreachable
//
// For validation errors (short justification, bad input) use
// pkg/domain-errors directly.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrExpired         = errors.New("expired")
	ErrInvalidState    = errors.New("invalid state")
	ErrDispatchPending = errors.New("dispatch pending")
	ErrUnavailable     = errors.New("unavailable")
)
