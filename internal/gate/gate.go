// Package gate implements the admission check guarding every sensitive
// operation: identity credential, suspension flag, and competency rating
// against the configured threshold.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"medgate/internal/gate/metrics"
	"medgate/internal/oracle"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

// Reason identifies which admission rule denied an account.
type Reason string

const (
	ReasonNoCredential       Reason = "no_credential"
	ReasonSuspended          Reason = "suspended"
	ReasonInsufficientRating Reason = "insufficient_rating"
	ReasonRatingExpired      Reason = "rating_expired"
)

// AdmissionError is the typed denial surfaced by the strict check. Rating
// and Threshold are populated for ReasonInsufficientRating; Expiry for
// ReasonRatingExpired.
type AdmissionError struct {
	Account   domain.Account
	Reason    Reason
	Rating    uint32
	Threshold uint32
	Expiry    time.Time
}

func (e *AdmissionError) Error() string {
	switch e.Reason {
	case ReasonInsufficientRating:
		return fmt.Sprintf("account %s denied: rating %d below threshold %d", e.Account, e.Rating, e.Threshold)
	case ReasonRatingExpired:
		return fmt.Sprintf("account %s denied: competency_rating expired at %s", e.Account, e.Expiry.Format(time.RFC3339))
	default:
		return fmt.Sprintf("account %s denied: %s", e.Account, e.Reason)
	}
}

// Denied extracts the typed admission denial from an error chain.
func Denied(err error) (*AdmissionError, bool) {
	var ae *AdmissionError
	ok := errors.As(err, &ae)
	return ae, ok
}

// OracleSource yields the currently configured identity oracle. The settings
// module swaps the oracle at runtime; reading it through this port makes the
// swap take effect on the next check with no grace period.
type OracleSource interface {
	Current(ctx context.Context) (oracle.Oracle, error)
}

// ThresholdSource yields the current competency threshold.
type ThresholdSource interface {
	Threshold(ctx context.Context) (uint32, error)
}

// Service is the single decision point used by every gated operation.
// It is read-only against the oracle and settings; no side effects.
type Service struct {
	oracles    OracleSource
	thresholds ThresholdSource
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the gate.
func New(oracles OracleSource, thresholds ThresholdSource, opts ...Option) (*Service, error) {
	if oracles == nil {
		return nil, fmt.Errorf("oracle source is required")
	}
	if thresholds == nil {
		return nil, fmt.Errorf("threshold source is required")
	}
	svc := &Service{oracles: oracles, thresholds: thresholds}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// facts are the three oracle answers an admission decision needs.
type facts struct {
	holdsCredential bool
	suspended       bool
	rating          oracle.Rating
}

// Check is the strict admission check. It returns nil when the account is
// admitted, an error wrapping *AdmissionError when denied, and a coded
// unavailable error when the oracle cannot answer.
//
// The three facts are fetched concurrently but evaluated in the fixed order
// credential, suspension, rating, expiry, so the surfaced denial reason is
// deterministic regardless of fetch timing.
func (s *Service) Check(ctx context.Context, account domain.Account) error {
	start := time.Now()
	err := s.check(ctx, account)
	s.observe(ctx, account, err, time.Since(start))
	return err
}

func (s *Service) check(ctx context.Context, account domain.Account) error {
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account is required")
	}

	ora, err := s.oracles.Current(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "identity oracle not configured")
	}
	threshold, err := s.thresholds.Threshold(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "competency threshold unavailable")
	}

	gathered, err := s.gather(ctx, ora, account)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "identity oracle lookup failed")
	}

	if !gathered.holdsCredential {
		return deny(&AdmissionError{Account: account, Reason: ReasonNoCredential})
	}
	if gathered.suspended {
		return deny(&AdmissionError{Account: account, Reason: ReasonSuspended})
	}
	if gathered.rating.Value < threshold {
		return deny(&AdmissionError{
			Account:   account,
			Reason:    ReasonInsufficientRating,
			Rating:    gathered.rating.Value,
			Threshold: threshold,
		})
	}
	if !gathered.rating.Expiry.After(requestcontext.Now(ctx)) {
		return deny(&AdmissionError{
			Account: account,
			Reason:  ReasonRatingExpired,
			Expiry:  gathered.rating.Expiry,
		})
	}
	return nil
}

// gather fetches the three oracle facts concurrently with shared
// cancellation on first failure.
func (s *Service) gather(ctx context.Context, ora oracle.Oracle, account domain.Account) (*facts, error) {
	g, ctx := errgroup.WithContext(ctx)
	gathered := &facts{}

	g.Go(func() error {
		holds, err := ora.HoldsCredential(ctx, account)
		if err != nil {
			return err
		}
		gathered.holdsCredential = holds
		return nil
	})
	g.Go(func() error {
		suspended, err := ora.IsSuspended(ctx, account)
		if err != nil {
			return err
		}
		gathered.suspended = suspended
		return nil
	})
	g.Go(func() error {
		rating, err := ora.CompetencyRating(ctx, account)
		if err != nil {
			return err
		}
		gathered.rating = rating
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gathered, nil
}

// IsAdmitted is the advisory boolean probe. All denial kinds, and oracle
// failures, collapse into false.
func (s *Service) IsAdmitted(ctx context.Context, account domain.Account) bool {
	return s.Check(ctx, account) == nil
}

func deny(ae *AdmissionError) error {
	return dErrors.Wrap(ae, dErrors.CodeForbidden, "admission denied")
}

func (s *Service) observe(ctx context.Context, account domain.Account, err error, elapsed time.Duration) {
	outcome := "admitted"
	if err != nil {
		if ae, ok := Denied(err); ok {
			outcome = string(ae.Reason)
		} else {
			outcome = "oracle_error"
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveCheck(outcome, elapsed)
	}
	if s.logger != nil && err != nil {
		s.logger.DebugContext(ctx, "admission check denied",
			"request_id", requestcontext.RequestID(ctx),
			"account", account.String(),
			"outcome", outcome,
		)
	}
}
