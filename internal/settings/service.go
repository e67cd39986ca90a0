package settings

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"medgate/internal/audit"
	"medgate/internal/oracle"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

// OracleFactory builds an oracle client from a reference string. The
// factory validates the reference; SetOracle refuses to commit one the
// factory cannot build.
type OracleFactory func(ref string) (oracle.Oracle, error)

// Service owns the runtime configuration and serves as the gate's oracle
// and threshold source. Threshold reads hit the store on every check so a
// change is visible immediately; the built oracle client is cached and
// swapped atomically on SetOracle.
type Service struct {
	mu        sync.RWMutex
	current   oracle.Oracle
	store     Store
	factory   OracleFactory
	owner     domain.Account
	publisher audit.Publisher
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New constructs the settings service, building the oracle client from the
// stored reference when one is present.
func New(ctx context.Context, store Store, factory OracleFactory, owner domain.Account, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "settings store is required")
	}
	if factory == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "oracle factory is required")
	}
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInternal, "owner account is required")
	}
	svc := &Service{store: store, factory: factory, owner: owner, publisher: audit.NopPublisher{}}
	for _, opt := range opts {
		opt(svc)
	}

	ref, err := store.OracleRef(ctx)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		built, err := factory(ref)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored oracle reference is unusable")
		}
		svc.current = built
	}
	return svc, nil
}

// SetOracle replaces the identity oracle. Owner only; the reference must be
// non-empty and buildable. Takes effect on the next admission check.
func (s *Service) SetOracle(ctx context.Context, caller domain.Account, ref string) error {
	if caller != s.owner {
		return ErrNotAuthorized
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ErrZeroAddress
	}

	built, err := s.factory(ref)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "oracle reference is unusable")
	}
	if err := s.store.SaveOracleRef(ctx, ref); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = built
	s.mu.Unlock()

	s.emitChange(ctx, caller, "oracle_ref", ref)
	return nil
}

// SetThreshold replaces the competency threshold. Owner only.
func (s *Service) SetThreshold(ctx context.Context, caller domain.Account, value uint32) error {
	if caller != s.owner {
		return ErrNotAuthorized
	}
	if err := s.store.SaveThreshold(ctx, value); err != nil {
		return err
	}
	s.emitChange(ctx, caller, "competency_threshold", strconv.FormatUint(uint64(value), 10))
	return nil
}

// Current returns the configured oracle. Satisfies the gate's OracleSource.
func (s *Service) Current(context.Context) (oracle.Oracle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotConfigured
	}
	return s.current, nil
}

// Threshold returns the live threshold. Satisfies the gate's
// ThresholdSource.
func (s *Service) Threshold(ctx context.Context) (uint32, error) {
	return s.store.Threshold(ctx)
}

// OracleRef returns the stored oracle reference.
func (s *Service) OracleRef(ctx context.Context) (string, error) {
	return s.store.OracleRef(ctx)
}

func (s *Service) emitChange(ctx context.Context, caller domain.Account, setting, value string) {
	s.publisher.Emit(ctx, audit.Event{
		Action:  audit.ActionConfigUpdated,
		Actor:   caller,
		Subject: setting,
		Details: map[string]string{"value": value},
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "configuration changed",
			"request_id", requestcontext.RequestID(ctx),
			"setting", setting,
			"value", value,
		)
	}
}
