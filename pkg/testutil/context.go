package testutil

import (
	"net/http"

	id "cotejo/pkg/domain"
	"cotejo/pkg/requestcontext"
)

// WithOperator adds an operator ID to the request context, simulating what
// the auth middleware does for authenticated requests. Invalid IDs are
// silently ignored so tests can exercise the unauthenticated path with a
// bogus string.
func WithOperator(req *http.Request, operatorID string) *http.Request {
	parsed, err := id.ParseOperatorID(operatorID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithOperatorID(req.Context(), parsed))
}

// WithOperatorZone adds a zone claim to the request context.
func WithOperatorZone(req *http.Request, zone string) *http.Request {
	return req.WithContext(requestcontext.WithOperatorZone(req.Context(), zone))
}

// WithRequestID adds a correlation ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
