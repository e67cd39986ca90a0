package testutil

import (
	"net/http"

	"medgate/pkg/domain"
	"medgate/pkg/requestcontext"
)

// WithAccount adds a caller account to the request context, simulating what
// the auth middleware does for authenticated requests. Invalid accounts are
// silently ignored.
func WithAccount(req *http.Request, account string) *http.Request {
	acct, err := domain.ParseAccount(account)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithAccount(req.Context(), acct))
}

// WithRequestID adds a request correlation id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
