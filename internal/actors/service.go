package actors

import (
	"context"
	"log/slog"

	"medgate/internal/audit"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

// Gate is the admission port. Check returns nil when the account is
// admitted and a coded error otherwise.
type Gate interface {
	Check(ctx context.Context, account domain.Account) error
}

// ErrNotAuthorized is returned when the caller lacks registry authority.
var ErrNotAuthorized = dErrors.New(dErrors.CodeForbidden, "caller lacks registry authority")

// Service manages the doctor and admin registries. Mutations require
// authority plus a passing admission check on the caller; the doctor
// registry may additionally be managed by registered admins.
type Service struct {
	doctors   DoctorStore
	admins    AdminStore
	authority domain.Account
	gate      Gate
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

// New constructs the registry service. authority is the deploying account
// holding top-level control.
func New(doctors DoctorStore, admins AdminStore, authority domain.Account, gate Gate, opts ...Option) (*Service, error) {
	if doctors == nil || admins == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "doctor and admin stores are required")
	}
	if authority.IsZero() {
		return nil, dErrors.New(dErrors.CodeInternal, "authority account is required")
	}
	if gate == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "admission gate is required")
	}
	svc := &Service{
		doctors:   doctors,
		admins:    admins,
		authority: authority,
		gate:      gate,
		publisher: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// AddDoctor registers a doctor profile. The caller must be the top-level
// authority or a registered admin, and must pass the admission check.
func (s *Service) AddDoctor(ctx context.Context, caller domain.Account, doctor Doctor) error {
	if err := s.authorizeRegistrar(ctx, caller); err != nil {
		return err
	}
	if doctor.Account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "doctor account is required")
	}
	if doctor.PricePerSession <= 0 {
		return ErrZeroAmount
	}
	if err := s.doctors.Save(ctx, doctor); err != nil {
		return err
	}
	s.emitRegistryChange(ctx, audit.ActionActorAdded, caller, doctor.Account, "doctor")
	return nil
}

// RemoveDoctor deletes a doctor profile and its enumeration entry.
func (s *Service) RemoveDoctor(ctx context.Context, caller domain.Account, account domain.Account) error {
	if err := s.authorizeRegistrar(ctx, caller); err != nil {
		return err
	}
	if err := s.doctors.Delete(ctx, account); err != nil {
		return err
	}
	s.emitRegistryChange(ctx, audit.ActionActorRemoved, caller, account, "doctor")
	return nil
}

// AddAdmin registers an admin. Only the top-level authority may manage the
// admin registry.
func (s *Service) AddAdmin(ctx context.Context, caller domain.Account, account domain.Account) error {
	if err := s.authorizeOwner(ctx, caller); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin account is required")
	}
	if err := s.admins.Save(ctx, Admin{Account: account}); err != nil {
		return err
	}
	s.emitRegistryChange(ctx, audit.ActionActorAdded, caller, account, "admin")
	return nil
}

// RemoveAdmin deletes an admin.
func (s *Service) RemoveAdmin(ctx context.Context, caller domain.Account, account domain.Account) error {
	if err := s.authorizeOwner(ctx, caller); err != nil {
		return err
	}
	if err := s.admins.Delete(ctx, account); err != nil {
		return err
	}
	s.emitRegistryChange(ctx, audit.ActionActorRemoved, caller, account, "admin")
	return nil
}

// ListDoctors returns the doctor enumeration. Order reflects swap removals
// and is not stable. No admission check; the list is public.
func (s *Service) ListDoctors(ctx context.Context) ([]domain.Account, error) {
	return s.doctors.List(ctx)
}

// ListAdmins returns the admin enumeration.
func (s *Service) ListAdmins(ctx context.Context) ([]domain.Account, error) {
	return s.admins.List(ctx)
}

// Doctor returns the registered profile for an account.
func (s *Service) Doctor(ctx context.Context, account domain.Account) (Doctor, error) {
	return s.doctors.Find(ctx, account)
}

// IsDoctor reports whether the account holds the doctor role.
func (s *Service) IsDoctor(ctx context.Context, account domain.Account) bool {
	_, err := s.doctors.Find(ctx, account)
	return err == nil
}

// IsAdmin reports whether the account holds the admin role.
func (s *Service) IsAdmin(ctx context.Context, account domain.Account) bool {
	_, err := s.admins.Find(ctx, account)
	return err == nil
}

// authorizeOwner admits only the top-level authority, after the strict
// admission check.
func (s *Service) authorizeOwner(ctx context.Context, caller domain.Account) error {
	if err := s.gate.Check(ctx, caller); err != nil {
		return err
	}
	if caller != s.authority {
		return ErrNotAuthorized
	}
	return nil
}

// authorizeRegistrar admits the top-level authority or a registered admin.
func (s *Service) authorizeRegistrar(ctx context.Context, caller domain.Account) error {
	if err := s.gate.Check(ctx, caller); err != nil {
		return err
	}
	if caller == s.authority || s.IsAdmin(ctx, caller) {
		return nil
	}
	return ErrNotAuthorized
}

func (s *Service) emitRegistryChange(ctx context.Context, action audit.Action, caller, subject domain.Account, role string) {
	s.publisher.Emit(ctx, audit.Event{
		Action:  action,
		Actor:   caller,
		Subject: subject.String(),
		Details: map[string]string{"role": role},
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "registry changed",
			"request_id", requestcontext.RequestID(ctx),
			"action", string(action),
			"role", role,
			"account", subject.String(),
		)
	}
}
