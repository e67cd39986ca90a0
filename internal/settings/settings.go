// Package settings holds the runtime configuration the gate reads live:
// the identity oracle reference and the competency threshold. Changes are
// owner-only and take effect on the next admission check.
package settings

import (
	"context"

	dErrors "medgate/pkg/domain-errors"
)

// Configuration failures.
var (
	ErrZeroAddress   = dErrors.New(dErrors.CodeInvalidInput, "oracle reference must not be empty")
	ErrNotAuthorized = dErrors.New(dErrors.CodeForbidden, "caller is not the configuration owner")
	ErrNotConfigured = dErrors.New(dErrors.CodeUnavailable, "identity oracle is not configured")
)

// Store persists the two settings.
type Store interface {
	SaveOracleRef(ctx context.Context, ref string) error
	OracleRef(ctx context.Context) (string, error)
	SaveThreshold(ctx context.Context, value uint32) error
	Threshold(ctx context.Context) (uint32, error)
}
