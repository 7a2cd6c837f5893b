// Package handler exposes the intake resolution workflow over HTTP. The
// handlers stay thin: decode, validate, delegate to the service, translate
// the result.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cotejo/internal/intake"
	"cotejo/internal/intake/service"
	"cotejo/internal/platform/middleware"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
	"cotejo/pkg/platform/httputil"
	"cotejo/pkg/requestcontext"
)

// Service defines the workflow operations the handlers delegate to.
type Service interface {
	StartSession(ctx context.Context, input service.StartSessionInput) (*intake.Session, error)
	GetSession(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
	Link(ctx context.Context, sessionID id.SessionID, legajoID id.LegajoID) (*intake.Session, error)
	BeginCreateNew(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
	UpdateJustification(ctx context.Context, sessionID id.SessionID, text string, confirm bool) (*intake.Session, int, error)
	ConfirmCreate(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
	Back(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
	SubmitPermissionRequest(ctx context.Context, sessionID id.SessionID, legajoID *id.LegajoID, kind string, reason string) (*intake.Session, error)
	Cancel(ctx context.Context, sessionID id.SessionID) (*intake.Session, error)
}

// Handler handles intake workflow endpoints.
type Handler struct {
	intake Service
	logger *slog.Logger
}

// New creates a new intake Handler.
func New(intakeService Service, logger *slog.Logger) *Handler {
	return &Handler{intake: intakeService, logger: logger}
}

// Register mounts the intake routes. auth is the operator-token middleware;
// tests substitute a pass-through that injects a fixed identity.
func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(auth)

	router.Post("/sessions", h.handleStartSession)
	router.Get("/sessions/{sessionID}", h.handleGetSession)
	router.Post("/sessions/{sessionID}/link", h.handleLink)
	router.Post("/sessions/{sessionID}/create-new", h.handleCreateNew)
	router.Put("/sessions/{sessionID}/justification", h.handleJustification)
	router.Post("/sessions/{sessionID}/confirm-create", h.handleConfirmCreate)
	router.Post("/sessions/{sessionID}/back", h.handleBack)
	router.Post("/sessions/{sessionID}/permission-request", h.handlePermissionRequest)
	router.Post("/sessions/{sessionID}/cancel", h.handleCancel)

	r.Mount("/intake", router)
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[startSessionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	session, err := h.intake.StartSession(ctx, req.toInput())
	if err != nil {
		h.writeServiceError(w, r, "start session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newSessionResponse(session, 0))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.intake.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, "get session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[linkRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	session, err := h.intake.Link(ctx, sessionID, req.legajoID)
	if err != nil {
		h.writeServiceError(w, r, "link", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handleCreateNew(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.intake.BeginCreateNew(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, "create-new", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handleJustification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[justificationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	session, remaining, err := h.intake.UpdateJustification(ctx, sessionID, req.Text, req.Confirm)
	if err != nil && session == nil {
		h.writeServiceError(w, r, "justification", err)
		return
	}
	if err != nil {
		// Validation failure on confirm: the draft was saved, the session
		// did not move. Surface both the error and the live count.
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, remaining))
}

func (h *Handler) handleConfirmCreate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.intake.ConfirmCreate(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, "confirm-create", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.intake.Back(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, "back", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handlePermissionRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[permissionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	session, err := h.intake.SubmitPermissionRequest(ctx, sessionID, req.legajoID, req.Kind, req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "permission-request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.intake.Cancel(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, "cancel", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSessionResponse(session, 0))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (id.SessionID, bool) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return sessionID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, "intake action failed",
			"action", action,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	case dErrors.CodeUnavailable:
		h.logger.WarnContext(ctx, "intake dispatch unavailable",
			"action", action,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
