package records

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medgate/internal/audit"
	"medgate/internal/ledger"
	"medgate/internal/records/metrics"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

var tracer = otel.Tracer("medgate/internal/records")

// Gate is the admission port.
type Gate interface {
	Check(ctx context.Context, account domain.Account) error
}

// Directory is the registry slice the workflow needs: provider pricing and
// the doctor role probe.
type Directory interface {
	ProviderPrice(ctx context.Context, account domain.Account) (int64, error)
	IsDoctor(ctx context.Context, account domain.Account) bool
}

// Service drives each report through Requested, Fulfilled, Released.
//
// Every state change runs under one mutex so record creation and custody,
// and capture-then-zero on release, are atomic with respect to each other.
type Service struct {
	mu        sync.Mutex
	store     Store
	book      ledger.Ledger
	gate      Gate
	directory Directory
	publisher audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New constructs the workflow service.
func New(store Store, book ledger.Ledger, gate Gate, directory Directory, opts ...Option) (*Service, error) {
	if store == nil || book == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "store and ledger are required")
	}
	if gate == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "admission gate is required")
	}
	if directory == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "actor directory is required")
	}
	svc := &Service{
		store:     store,
		book:      book,
		gate:      gate,
		directory: directory,
		publisher: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Request opens a report against a registered provider, taking the exact
// asking price into escrow. The caller must pass the admission check; the
// amount must equal the provider's price to the unit.
func (s *Service) Request(ctx context.Context, caller, provider domain.Account, dateOfBirth, condition string, amount int64) (id domain.ReportID, err error) {
	ctx, span := tracer.Start(ctx, "records.Request", trace.WithAttributes(
		attribute.String("provider", provider.String()),
	))
	defer func() { s.finish(span, "request", err) }()

	if err = s.gate.Check(ctx, caller); err != nil {
		return 0, err
	}

	price, perr := s.directory.ProviderPrice(ctx, provider)
	if perr != nil {
		if dErrors.HasCode(perr, dErrors.CodeNotFound) {
			return 0, ErrProviderNotFound
		}
		return 0, perr
	}
	if amount != price {
		return 0, ErrAmountMismatch
	}

	now := requestcontext.Now(ctx)
	report := MedicalReport{
		IssuedAt:   now,
		Condition:  condition,
		Provider:   provider,
		Requester:  caller,
		AmountHeld: amount,
		Paid:       true,
	}

	s.mu.Lock()
	// The patient write goes first: a failure here leaves no report and no
	// held funds behind.
	if err = s.touchPatient(ctx, caller, dateOfBirth, now); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	id, err = s.store.Create(ctx, report)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if err = s.book.Hold(ctx, id, amount); err != nil {
		// No state where a record exists without its value in custody.
		_ = s.store.Discard(ctx, id)
		s.mu.Unlock()
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "custody hold failed")
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Int64("report_id", int64(id)))
	s.publisher.Emit(ctx, audit.Event{
		Action:   audit.ActionRecordRequested,
		Actor:    caller,
		Subject:  provider.String(),
		ReportID: id,
		Amount:   amount,
	})
	s.log(ctx, "record requested", id, caller)
	return id, nil
}

// Fulfill marks a report as completed and attaches the provider's summary.
// Held funds are untouched.
func (s *Service) Fulfill(ctx context.Context, caller domain.Account, id domain.ReportID, summary string) (err error) {
	ctx, span := tracer.Start(ctx, "records.Fulfill", trace.WithAttributes(
		attribute.Int64("report_id", int64(id)),
	))
	defer func() { s.finish(span, "fulfill", err) }()

	if err = s.requireDoctor(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.store.Report(ctx, id)
	if err != nil {
		return err
	}
	if report.Requester.IsZero() {
		return ErrRequesterNotFound
	}

	report.Fulfilled = true
	report.Summary = summary
	report.IssuedAt = requestcontext.Now(ctx)
	if err = s.store.Update(ctx, report); err != nil {
		return err
	}

	s.publisher.Emit(ctx, audit.Event{
		Action:   audit.ActionRecordFulfilled,
		Actor:    caller,
		Subject:  report.Requester.String(),
		ReportID: id,
	})
	s.log(ctx, "record fulfilled", id, caller)
	return nil
}

// Release pays the held amount out to the report's provider. The held
// amount is captured and zeroed before the payout, so a report releases at
// most once; if the payout itself fails the record stays zeroed and the
// error is returned to the caller.
func (s *Service) Release(ctx context.Context, caller domain.Account, id domain.ReportID) (amount int64, err error) {
	ctx, span := tracer.Start(ctx, "records.Release", trace.WithAttributes(
		attribute.Int64("report_id", int64(id)),
	))
	defer func() { s.finish(span, "release", err) }()

	if err = s.requireDoctor(ctx, caller); err != nil {
		return 0, err
	}

	s.mu.Lock()
	report, err := s.store.Report(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if report.Provider != caller {
		s.mu.Unlock()
		return 0, ErrNotRecordOwner
	}
	if !report.Paid || !report.Fulfilled || report.AmountHeld <= 0 {
		s.mu.Unlock()
		return 0, ErrInvalidReleaseConditions
	}

	amount = report.AmountHeld
	report.AmountHeld = 0
	if err = s.store.Update(ctx, report); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	if err = s.book.Payout(ctx, caller, amount); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "payout failed")
	}

	if s.metrics != nil {
		s.metrics.ObserveRelease(amount)
	}
	s.publisher.Emit(ctx, audit.Event{
		Action:   audit.ActionFundsReleased,
		Actor:    caller,
		ReportID: id,
		Amount:   amount,
	})
	s.log(ctx, "funds released", id, caller)
	return amount, nil
}

// Report is the read-only lookup. Records are permanent history, so there
// is no admission check.
func (s *Service) Report(ctx context.Context, id domain.ReportID) (MedicalReport, error) {
	return s.store.Report(ctx, id)
}

// Patient is the read-only profile lookup.
func (s *Service) Patient(ctx context.Context, account domain.Account) (Patient, error) {
	return s.store.Patient(ctx, account)
}

// touchPatient lazily creates the requester's profile or refreshes its
// last-request timestamp. DateOfBirth is fixed at first creation.
func (s *Service) touchPatient(ctx context.Context, account domain.Account, dateOfBirth string, now time.Time) error {
	existing, err := s.store.Patient(ctx, account)
	switch {
	case err == nil:
		existing.LastRequestAt = now
		return s.store.SavePatient(ctx, existing)
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return s.store.SavePatient(ctx, Patient{
			Account:       account,
			DateOfBirth:   dateOfBirth,
			LastRequestAt: now,
		})
	default:
		return err
	}
}

func (s *Service) requireDoctor(ctx context.Context, caller domain.Account) error {
	if err := s.gate.Check(ctx, caller); err != nil {
		return err
	}
	if !s.directory.IsDoctor(ctx, caller) {
		return ErrDoctorRoleRequired
	}
	return nil
}

func (s *Service) finish(span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, err)
	}
}

func (s *Service) log(ctx context.Context, msg string, id domain.ReportID, caller domain.Account) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"report_id", strconv.FormatUint(uint64(id), 10),
		"account", caller.String(),
	)
}
