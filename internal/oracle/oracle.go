// Package oracle defines the identity oracle consumed by the access gate.
//
// The oracle is an external collaborator: it owns credentials, suspension
// flags, and competency ratings. This package only specifies the consumer
// side and ships an HTTP client, a caching decorator, and a static in-memory
// implementation for tests and local development.
package oracle

//go:generate mockgen -source=oracle.go -destination=mocks/oracle.go -package=mocks Oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medgate/pkg/domain"
)

// Rating is the competency attribute asserted by the oracle for an account.
// Expiry is the instant after which the rating no longer counts.
type Rating struct {
	Value  uint32            `json:"rating"`
	Expiry time.Time         `json:"expires_at"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Oracle answers the three identity questions the gate asks.
type Oracle interface {
	// HoldsCredential reports whether the account holds a non-transferable
	// identity credential.
	HoldsCredential(ctx context.Context, account domain.Account) (bool, error)
	// IsSuspended reports whether the account is currently suspended.
	IsSuspended(ctx context.Context, account domain.Account) (bool, error)
	// CompetencyRating returns the account's current rating and its expiry.
	// Accounts unknown to the oracle get the zero Rating, not an error.
	CompetencyRating(ctx context.Context, account domain.Account) (Rating, error)
}

// ErrorCategory normalizes oracle failures so callers can decide on
// retryability without knowing the transport.
type ErrorCategory string

const (
	ErrorTimeout ErrorCategory = "timeout"
	ErrorBadData ErrorCategory = "bad_data"
	ErrorOutage  ErrorCategory = "outage"
)

// LookupError wraps oracle failures with normalized categorization.
type LookupError struct {
	Category   ErrorCategory
	Endpoint   string
	Underlying error

	// notFound marks a well-formed "account unknown" answer so clients can
	// translate it into an absent attribute instead of a failure.
	notFound bool
}

func (e *LookupError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("oracle %s [%s]: %v", e.Endpoint, e.Category, e.Underlying)
	}
	return fmt.Sprintf("oracle %s [%s]", e.Endpoint, e.Category)
}

func (e *LookupError) Unwrap() error { return e.Underlying }

// IsRetryable reports whether an oracle error is worth retrying.
func IsRetryable(err error) bool {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category == ErrorTimeout || le.Category == ErrorOutage
	}
	return false
}
