package handler

//go:generate mockgen -source=handler.go -destination=mocks/intake-mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cotejo/internal/intake"
	"cotejo/internal/intake/handler/mocks"
	"cotejo/internal/intake/service"
	"cotejo/internal/match"
	id "cotejo/pkg/domain"
	dErrors "cotejo/pkg/domain-errors"
	"cotejo/pkg/requestcontext"
	"cotejo/pkg/testutil"
)

type IntakeHandlerSuite struct {
	suite.Suite

	router     chi.Router
	service    *mocks.MockService
	operatorID id.OperatorID
}

func TestIntakeHandlerSuite(t *testing.T) {
	suite.Run(t, new(IntakeHandlerSuite))
}

func (s *IntakeHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)
	s.operatorID = id.OperatorID(uuid.New())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, logger)
	s.router = chi.NewRouter()
	h.Register(s.router, s.fixedOperator())
}

// fixedOperator substitutes the token middleware with a known identity.
func (s *IntakeHandlerSuite) fixedOperator() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithOperatorID(r.Context(), s.operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *IntakeHandlerSuite) session(status intake.Status) *intake.Session {
	distance := 2
	return &intake.Session{
		ID:         id.NewSessionID(),
		DemandaID:  id.DemandaID(uuid.New()),
		OperatorID: s.operatorID,
		Status:     status,
		AlertLevel: match.AlertCritical,
		Candidates: []match.Candidate{{
			LegajoID:    id.LegajoID(uuid.New()),
			LegajoLabel: "LEG-2024-0123",
			Score:       0.95,
			Comparisons: []match.FieldComparison{
				{Field: "nombre", Kind: match.ValueText, Type: match.MatchSimilar, InputValue: "Juan", ExistingValue: "Juán", EditDistance: &distance},
				{Field: "dni", Kind: match.ValueNumber, Type: match.MatchExact, InputValue: "12345678", ExistingValue: "12345678"},
			},
		}},
	}
}

func (s *IntakeHandlerSuite) TestStartSession() {
	session := s.session(intake.StatusReviewing)
	s.service.EXPECT().StartSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input service.StartSessionInput) (*intake.Session, error) {
			s.Len(input.Candidates, 1)
			s.False(input.DemandaID.IsNil())
			return session, nil
		})

	body := map[string]any{
		"demandaId":     uuid.NewString(),
		"demandPayload": map[string]any{"nombre": "Juan"},
		"candidates": []map[string]any{{
			"legajoId":    uuid.NewString(),
			"legajoLabel": "LEG-2024-0123",
			"score":       0.95,
			"comparisons": []map[string]any{},
		}},
	}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions", body))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal("reviewing", resp.Status)
	s.Equal("critical", resp.AlertLevel)
	s.True(resp.RequiresDoubleConfirmation)
	s.Require().Len(resp.Candidates, 1)
	s.Require().Len(resp.Candidates[0].Comparisons, 2)
	s.Equal("Similar", resp.Candidates[0].Comparisons[0].Label)
	s.Equal("distancia 2", resp.Candidates[0].Comparisons[0].Annotation)
	s.Equal("Coincidencia exacta", resp.Candidates[0].Comparisons[1].Label)
}

func (s *IntakeHandlerSuite) TestStartSession_MalformedDemandaID() {
	body := map[string]any{"demandaId": "not-a-uuid"}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *IntakeHandlerSuite) TestStartSession_MalformedBody() {
	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/intake/sessions", "{not json"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *IntakeHandlerSuite) TestGetSession() {
	session := s.session(intake.StatusReviewing)
	s.service.EXPECT().GetSession(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/intake/sessions/"+session.ID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal(session.ID.String(), resp.SessionID)
}

func (s *IntakeHandlerSuite) TestGetSession_MalformedID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/intake/sessions/not-a-uuid"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *IntakeHandlerSuite) TestGetSession_NotFound() {
	sessionID := id.NewSessionID()
	s.service.EXPECT().GetSession(gomock.Any(), sessionID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "intake session not found"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/intake/sessions/"+sessionID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *IntakeHandlerSuite) TestLink() {
	session := s.session(intake.StatusResolved)
	legajoID := session.Candidates[0].LegajoID
	session.Outcome = &intake.Outcome{Kind: intake.OutcomeLinked, LinkedLegajoID: legajoID, AcceptedScore: 0.95}
	s.service.EXPECT().Link(gomock.Any(), session.ID, legajoID).Return(session, nil)

	body := map[string]any{"legajoId": legajoID.String()}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/link", body))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal("resolved", resp.Status)
	s.Require().NotNil(resp.Outcome)
	s.Equal("linked", resp.Outcome.Kind)
	s.Equal(legajoID.String(), resp.Outcome.LinkedLegajoID)
}

func (s *IntakeHandlerSuite) TestLink_NonLinkableConflict() {
	session := s.session(intake.StatusReviewing)
	legajoID := session.Candidates[0].LegajoID
	s.service.EXPECT().Link(gomock.Any(), session.ID, legajoID).
		Return(nil, dErrors.New(dErrors.CodeConflict, "this legajo cannot receive new demandas; contact the owning team"))

	body := map[string]any{"legajoId": legajoID.String()}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/link", body))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	testutil.AssertJSONContains(s.T(), rr, "error_description", "this legajo cannot receive new demandas; contact the owning team")
}

func (s *IntakeHandlerSuite) TestLink_MissingLegajoID() {
	sessionID := id.NewSessionID()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions/"+sessionID.String()+"/link", map[string]any{}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *IntakeHandlerSuite) TestCreateNew() {
	session := s.session(intake.StatusAwaitingJustification)
	s.service.EXPECT().BeginCreateNew(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/create-new"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal("awaiting_justification", resp.Status)
}

func (s *IntakeHandlerSuite) TestJustification_LiveCount() {
	session := s.session(intake.StatusAwaitingJustification)
	session.JustificationText = "doce letras."
	s.service.EXPECT().UpdateJustification(gomock.Any(), session.ID, "doce letras.", false).
		Return(session, 8, nil)

	body := map[string]any{"text": "doce letras."}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/intake/sessions/"+session.ID.String()+"/justification", body))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal(8, resp.JustificationRemaining)
	s.Equal("doce letras.", resp.JustificationText)
}

func (s *IntakeHandlerSuite) TestJustification_ConfirmTooShort() {
	session := s.session(intake.StatusAwaitingJustification)
	s.service.EXPECT().UpdateJustification(gomock.Any(), session.ID, "doce letras.", true).
		Return(session, 8, dErrors.New(dErrors.CodeInvalidInput, "justification too short: 8 characters remaining"))

	body := map[string]any{"text": "doce letras.", "confirm": true}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/intake/sessions/"+session.ID.String()+"/justification", body))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	testutil.AssertJSONContains(s.T(), rr, "error_description", "justification too short: 8 characters remaining")
}

func (s *IntakeHandlerSuite) TestConfirmCreate() {
	session := s.session(intake.StatusResolved)
	session.Outcome = &intake.Outcome{Kind: intake.OutcomeForcedCreate, Justification: "es otro grupo familiar", AcceptedScore: 0.95}
	s.service.EXPECT().ConfirmCreate(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/confirm-create"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Require().NotNil(resp.Outcome)
	s.Equal("forced_create", resp.Outcome.Kind)
	s.Equal("es otro grupo familiar", resp.Outcome.Justification)
}

func (s *IntakeHandlerSuite) TestConfirmCreate_DispatchFailure() {
	sessionID := id.NewSessionID()
	s.service.EXPECT().ConfirmCreate(gomock.Any(), sessionID).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "registry unavailable"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/intake/sessions/"+sessionID.String()+"/confirm-create"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
}

func (s *IntakeHandlerSuite) TestBack() {
	session := s.session(intake.StatusAwaitingJustification)
	session.JustificationText = "coincide el apellido pero no la persona"
	s.service.EXPECT().Back(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/back"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal("awaiting_justification", resp.Status)
	s.Equal("coincide el apellido pero no la persona", resp.JustificationText)
}

func (s *IntakeHandlerSuite) TestPermissionRequest() {
	session := s.session(intake.StatusResolved)
	session.Outcome = &intake.Outcome{
		Kind:                intake.OutcomePermissionRequested,
		EscalationRequestID: id.EscalationRequestID(uuid.New()),
		AcceptedScore:       0.95,
	}
	s.service.EXPECT().
		SubmitPermissionRequest(gomock.Any(), session.ID, gomock.Nil(), "TemporaryAccess", "necesito acceso para vincular").
		Return(session, nil)

	body := map[string]any{"kind": "TemporaryAccess", "reason": "necesito acceso para vincular"}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/permission-request", body))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Require().NotNil(resp.Outcome)
	s.Equal("permission_requested", resp.Outcome.Kind)
	s.NotEmpty(resp.Outcome.EscalationRequestID)
}

func (s *IntakeHandlerSuite) TestPermissionRequest_MissingKind() {
	sessionID := id.NewSessionID()
	body := map[string]any{"reason": "una razon suficientemente larga"}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/sessions/"+sessionID.String()+"/permission-request", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *IntakeHandlerSuite) TestCancel() {
	session := s.session(intake.StatusCancelled)
	s.service.EXPECT().Cancel(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/intake/sessions/"+session.ID.String()+"/cancel"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[sessionResponse](s.T(), rr)
	s.Equal("cancelled", resp.Status)
}
