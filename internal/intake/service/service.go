// Package service implements the intake decision workflow: the state
// machine that takes one demanda from candidate review to a terminal
// outcome, enforcing validation gates and the dispatch discipline along
// the way.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cotejo/internal/audit"
	"cotejo/internal/escalation"
	"cotejo/internal/intake"
	"cotejo/internal/intake/metrics"
	"cotejo/internal/intake/store"
	"cotejo/internal/legajo"
	"cotejo/internal/match"
	"cotejo/internal/platform/config"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
	"cotejo/pkg/platform/sentinel"
	"cotejo/pkg/requestcontext"
)

// Service drives intake resolution sessions. All state transitions happen
// synchronously in response to one operator action; terminal dispatches to
// collaborators run under a bounded deadline inside the action that
// triggered them.
type Service struct {
	store    store.Store
	registry legajo.Client
	notifier escalation.Notifier
	audit    *audit.Publisher

	validator  *intake.Validator
	ranker     *match.Ranker
	classifier *match.Classifier

	metrics *metrics.Metrics
	logger  *slog.Logger

	dispatchTimeout time.Duration
}

// New wires a workflow service. Ranking and severity policy come from the
// matching config so thresholds live in exactly one place.
func New(
	sessions store.Store,
	registry legajo.Client,
	notifier escalation.Notifier,
	publisher *audit.Publisher,
	cfg config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:           sessions,
		registry:        registry,
		notifier:        notifier,
		audit:           publisher,
		validator:       intake.NewValidator(cfg.Matching),
		ranker:          match.NewRanker(cfg.Matching.MaxVisibleCandidates),
		classifier:      match.NewClassifier(cfg.Matching),
		metrics:         m,
		logger:          logger,
		dispatchTimeout: cfg.Dispatch.Timeout,
	}
}

// StartSessionInput is the candidate set delivered when a demanda enters
// intake. Candidates arrive once; the ranked snapshot never changes for
// the session's lifetime.
type StartSessionInput struct {
	DemandaID     id.DemandaID
	DemandPayload json.RawMessage
	Candidates    []match.Candidate
}

// StartSession ranks and classifies the candidate set and opens a session.
// An empty candidate set is not an error: the session stays Idle and the
// surrounding intake proceeds without ever presenting the workflow.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*intake.Session, error) {
	operatorID := requestcontext.OperatorID(ctx)
	if operatorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no authenticated operator")
	}
	if input.DemandaID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "demandaId is required")
	}
	for i, candidate := range input.Candidates {
		if err := candidate.Validate(); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInvalidInput,
				fmt.Sprintf("candidate %d is invalid", i), err)
		}
	}

	ranked := s.ranker.Rank(input.Candidates)
	status := intake.StatusReviewing
	if len(ranked) == 0 {
		status = intake.StatusIdle
	}

	now := requestcontext.Now(ctx)
	session := &intake.Session{
		ID:            id.NewSessionID(),
		DemandaID:     input.DemandaID,
		OperatorID:    operatorID,
		DemandPayload: input.DemandPayload,
		Status:        status,
		AlertLevel:    s.classifier.SessionLevel(ranked),
		Candidates:    ranked,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, storeError(err)
	}

	s.metrics.IncrementSessionStarted()
	s.logger.InfoContext(ctx, "intake session started",
		"session_id", session.ID,
		"demanda_id", session.DemandaID,
		"candidates", len(ranked),
		"alert_level", session.AlertLevel.String(),
	)
	return session, nil
}

// GetSession returns the session for the acting operator.
func (s *Service) GetSession(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	return s.load(ctx, sessionID)
}

// Link resolves the session against an existing legajo. Three cases, per
// the candidate's flags:
//   - permission and linkable: dispatch the link, resolve Linked;
//   - no permission: route into the escalation sub-flow, no error;
//   - permission but not linkable: blocking error, no transition.
func (s *Service) Link(ctx context.Context, sessionID id.SessionID, legajoID id.LegajoID) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != intake.StatusReviewing {
		return nil, invalidState("link", session.Status)
	}
	candidate, ok := session.CandidateByID(legajoID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "candidate is not part of this session")
	}

	if !candidate.HasPermission {
		// Missing permission is a routing decision, not a failure.
		session.SelectedLegajoID = &candidate.LegajoID
		session.Status = intake.StatusAwaitingPermission
		session.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Update(ctx, session); err != nil {
			return nil, storeError(err)
		}
		s.logger.InfoContext(ctx, "link routed to permission escalation",
			"session_id", session.ID, "legajo_id", candidate.LegajoID)
		return session, nil
	}
	if !candidate.CanLink {
		return nil, dErrors.New(dErrors.CodeConflict,
			"this legajo cannot receive new demandas; contact the owning team")
	}

	session.SelectedLegajoID = &candidate.LegajoID
	if err := s.markDispatch(ctx, session); err != nil {
		return nil, err
	}
	dispatchErr := s.timed(ctx, func(dctx context.Context) error {
		return s.registry.Link(dctx, legajo.LinkRequest{
			LegajoID:                candidate.LegajoID,
			DemandaID:               session.DemandaID,
			DemandPayload:           session.DemandPayload,
			ConfirmationOfDuplicate: true,
			AcceptedScore:           candidate.Score,
		})
	})
	return s.completeDispatch(ctx, session, "link", dispatchErr, func(fresh *intake.Session) {
		fresh.Outcome = &intake.Outcome{
			Kind:           intake.OutcomeLinked,
			LinkedLegajoID: candidate.LegajoID,
			AcceptedScore:  candidate.Score,
		}
	}, audit.Event{
		Action:         audit.ActionLinked,
		TargetLegajoID: candidate.LegajoID,
		AcceptedScore:  candidate.Score,
	})
}

// BeginCreateNew enters the forced-creation sub-flow. The primary candidate
// becomes the one being overridden; its score travels with the eventual
// dispatch for audit purposes.
func (s *Service) BeginCreateNew(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != intake.StatusReviewing {
		return nil, invalidState("create-new", session.Status)
	}
	primary, ok := match.Primary(session.Candidates)
	if !ok {
		return nil, invalidState("create-new", session.Status)
	}

	session.SelectedLegajoID = &primary.LegajoID
	session.Status = intake.StatusAwaitingJustification
	session.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, session); err != nil {
		return nil, storeError(err)
	}
	return session, nil
}

// UpdateJustification saves the draft text and reports how many characters
// are still needed. The draft is saved even when invalid so the operator
// never retypes. With confirm set and valid text the session advances to
// the final confirmation; forced creation is never a single step, whatever
// the alert level.
func (s *Service) UpdateJustification(ctx context.Context, sessionID id.SessionID, text string, confirm bool) (*intake.Session, int, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if session.Status != intake.StatusAwaitingJustification {
		return nil, 0, invalidState("justification", session.Status)
	}

	session.JustificationText = text
	session.UpdatedAt = requestcontext.Now(ctx)
	remaining := s.validator.JustificationRemaining(text)

	if confirm && remaining == 0 {
		session.Status = intake.StatusAwaitingFinalConfirmation
	}
	if err := s.store.Update(ctx, session); err != nil {
		return nil, 0, storeError(err)
	}
	if confirm && remaining > 0 {
		return session, remaining, s.validator.ValidateJustification(text)
	}
	return session, remaining, nil
}

// ConfirmCreate is the second confirmation: it dispatches the force-create
// and resolves the session. The justification is validated once more at
// this gate; a disabled submit control is not a guarantee.
func (s *Service) ConfirmCreate(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != intake.StatusAwaitingFinalConfirmation {
		return nil, invalidState("confirm-create", session.Status)
	}
	if err := s.validator.ValidateJustification(session.JustificationText); err != nil {
		return nil, err
	}
	ignored, ok := session.SelectedCandidate()
	if !ok {
		if ignored, ok = match.Primary(session.Candidates); !ok {
			return nil, invalidState("confirm-create", session.Status)
		}
	}
	justification := strings.TrimSpace(session.JustificationText)

	if err := s.markDispatch(ctx, session); err != nil {
		return nil, err
	}
	dispatchErr := s.timed(ctx, func(dctx context.Context) error {
		return s.registry.ForceCreate(dctx, legajo.ForceCreateRequest{
			IgnoredLegajoID: ignored.LegajoID,
			DemandaID:       session.DemandaID,
			DemandPayload:   session.DemandPayload,
			AcceptedScore:   ignored.Score,
			Justification:   justification,
		})
	})
	return s.completeDispatch(ctx, session, "force_create", dispatchErr, func(fresh *intake.Session) {
		fresh.Outcome = &intake.Outcome{
			Kind:          intake.OutcomeForcedCreate,
			Justification: justification,
			AcceptedScore: ignored.Score,
		}
	}, audit.Event{
		Action:         audit.ActionForcedCreate,
		TargetLegajoID: ignored.LegajoID,
		AcceptedScore:  ignored.Score,
		Detail:         justification,
	})
}

// Back returns from the final confirmation to the justification input with
// the entered text untouched.
func (s *Service) Back(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != intake.StatusAwaitingFinalConfirmation {
		return nil, invalidState("back", session.Status)
	}
	session.Status = intake.StatusAwaitingJustification
	session.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, session); err != nil {
		return nil, storeError(err)
	}
	return session, nil
}

// SubmitPermissionRequest runs the escalation sub-flow. It is re-entrant:
// from AwaitingPermission it targets the candidate the link attempt
// selected; from Reviewing it targets the candidate named in the request.
// Both entries converge on the same validation and request shape.
func (s *Service) SubmitPermissionRequest(ctx context.Context, sessionID id.SessionID, legajoID *id.LegajoID, kind string, reason string) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var candidate match.Candidate
	switch session.Status {
	case intake.StatusAwaitingPermission:
		var ok bool
		if candidate, ok = session.SelectedCandidate(); !ok {
			return nil, dErrors.New(dErrors.CodeInternal, "no candidate selected for escalation")
		}
	case intake.StatusReviewing:
		if legajoID == nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "legajoId is required to escalate from review")
		}
		var ok bool
		if candidate, ok = session.CandidateByID(*legajoID); !ok {
			return nil, dErrors.New(dErrors.CodeNotFound, "candidate is not part of this session")
		}
		session.SelectedLegajoID = &candidate.LegajoID
		session.Status = intake.StatusAwaitingPermission
	default:
		return nil, invalidState("permission-request", session.Status)
	}

	permissionKind, err := intake.ParsePermissionKind(kind)
	if err != nil {
		return nil, err
	}

	// The draft survives validation failures and failed dispatches.
	session.PermissionKind = permissionKind
	session.PermissionReason = reason
	session.UpdatedAt = requestcontext.Now(ctx)
	if validationErr := s.validator.ValidateReason(reason); validationErr != nil {
		if err := s.store.Update(ctx, session); err != nil {
			return nil, storeError(err)
		}
		return session, validationErr
	}
	trimmedReason := strings.TrimSpace(reason)

	if err := s.markDispatch(ctx, session); err != nil {
		return nil, err
	}
	var requestID id.EscalationRequestID
	dispatchErr := s.timed(ctx, func(dctx context.Context) error {
		var submitErr error
		requestID, submitErr = s.notifier.Submit(dctx, escalation.Request{
			TargetLegajoID: candidate.LegajoID,
			Kind:           string(permissionKind),
			Reason:         trimmedReason,
			OperatorID:     session.OperatorID,
			Owner:          candidate.Owner,
		})
		return submitErr
	})
	return s.completeDispatch(ctx, session, "permission_request", dispatchErr, func(fresh *intake.Session) {
		fresh.Outcome = &intake.Outcome{
			Kind:                intake.OutcomePermissionRequested,
			EscalationRequestID: requestID,
			AcceptedScore:       candidate.Score,
		}
	}, audit.Event{
		Action:         audit.ActionPermissionRequested,
		TargetLegajoID: candidate.LegajoID,
		AcceptedScore:  candidate.Score,
		Detail:         trimmedReason,
	})
}

// Cancel discards the session from any non-terminal state. No dispatch is
// sent; the generation bump guarantees an in-flight dispatch completion
// finds a changed generation and is discarded.
func (s *Service) Cancel(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, invalidState("cancel", session.Status)
	}

	session.Status = intake.StatusCancelled
	session.Generation++
	session.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, session); err != nil {
		return nil, storeError(err)
	}

	s.metrics.IncrementSessionCancelled()
	s.emitAudit(ctx, session, audit.Event{Action: audit.ActionCancelled})
	return session, nil
}

// load fetches the session and checks the acting operator owns it.
func (s *Service) load(ctx context.Context, sessionID id.SessionID) (*intake.Session, error) {
	operatorID := requestcontext.OperatorID(ctx)
	if operatorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no authenticated operator")
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, storeError(err)
	}
	if session.OperatorID != operatorID {
		return nil, dErrors.New(dErrors.CodeForbidden, "session belongs to another operator")
	}
	return session, nil
}

// markDispatch persists the in-flight flag before any network call leaves
// the process. A second terminal action on the same session either sees the
// flag or loses the optimistic-concurrency race; either way no second call
// is ever sent.
func (s *Service) markDispatch(ctx context.Context, session *intake.Session) error {
	if session.DispatchInFlight {
		return dErrors.Wrap(dErrors.CodeConflict,
			"a dispatch for this session is already in flight", sentinel.ErrDispatchPending)
	}
	session.DispatchInFlight = true
	session.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, session); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(dErrors.CodeConflict,
				"a dispatch for this session is already in flight", sentinel.ErrDispatchPending)
		}
		return storeError(err)
	}
	return nil
}

// timed runs one dispatch under the bounded deadline and records its
// duration. A dispatch never hangs past the timeout; expiry surfaces as a
// recoverable failure like any other.
func (s *Service) timed(ctx context.Context, dispatch func(context.Context) error) error {
	start := time.Now()
	dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()
	err := dispatch(dctx)
	s.metrics.ObserveDispatch(start)
	if dctx.Err() != nil && err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable,
			"the request did not complete in time; the session is unchanged", sentinel.ErrUnavailable)
	}
	return err
}

// completeDispatch applies the result of a finished dispatch. The session
// is re-read first: if its generation moved, the operator cancelled while
// the dispatch was pending and the completion is discarded without mutating
// state. On failure the session returns to its pre-dispatch state with all
// entered text intact; on success it resolves and exactly one audit event
// is emitted.
func (s *Service) completeDispatch(
	ctx context.Context,
	dispatched *intake.Session,
	operation string,
	dispatchErr error,
	resolve func(*intake.Session),
	event audit.Event,
) (*intake.Session, error) {
	fresh, err := s.store.Get(ctx, dispatched.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if fresh.Generation != dispatched.Generation {
		s.logger.InfoContext(ctx, "discarding stale dispatch completion",
			"session_id", dispatched.ID, "operation", operation)
		return fresh, nil
	}

	fresh.DispatchInFlight = false
	fresh.UpdatedAt = requestcontext.Now(ctx)

	if dispatchErr != nil {
		if err := s.store.Update(ctx, fresh); err != nil {
			return nil, storeError(err)
		}
		s.metrics.IncrementDispatchFailure(operation)
		s.logger.ErrorContext(ctx, "dispatch failed, session reverted",
			"session_id", dispatched.ID,
			"operation", operation,
			"status", string(fresh.Status),
			"error", dispatchErr,
		)
		return nil, dispatchErr
	}

	fresh.Status = intake.StatusResolved
	resolve(fresh)
	if err := s.store.Update(ctx, fresh); err != nil {
		return nil, storeError(err)
	}

	s.metrics.IncrementSessionResolved(string(fresh.Outcome.Kind))
	s.emitAudit(ctx, fresh, event)
	s.logger.InfoContext(ctx, "intake session resolved",
		"session_id", fresh.ID,
		"outcome", string(fresh.Outcome.Kind),
	)
	return fresh, nil
}

// emitAudit fills the session fields of the event and hands it off. Audit
// emission failing is logged, never propagated: the resolution already
// happened and the operator cannot act on a pipeline error.
func (s *Service) emitAudit(ctx context.Context, session *intake.Session, event audit.Event) {
	event.SessionID = session.ID
	event.DemandaID = session.DemandaID
	event.OperatorID = session.OperatorID
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emission failed",
			"session_id", session.ID, "action", string(event.Action), "error", err)
	}
}

func invalidState(action string, status intake.Status) error {
	return dErrors.Wrap(dErrors.CodeConflict,
		fmt.Sprintf("cannot %s from state %q", action, string(status)), sentinel.ErrInvalidState)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(dErrors.CodeNotFound, "intake session not found", err)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(dErrors.CodeConflict, "intake session was modified concurrently", err)
	}
	return dErrors.Wrap(dErrors.CodeInternal, "session store failure", err)
}
