package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/internal/audit"
	"medgate/internal/ledger"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/requestcontext"
)

const (
	drDana  = domain.Account("dr-dana")
	drOther = domain.Account("dr-other")
	patPete = domain.Account("pat-pete")
)

var workflowNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type fakeGate struct {
	denied map[domain.Account]error
}

func (g *fakeGate) Check(_ context.Context, account domain.Account) error {
	if err, ok := g.denied[account]; ok {
		return err
	}
	return nil
}

type fakeDirectory struct {
	prices map[domain.Account]int64
}

func (d *fakeDirectory) ProviderPrice(_ context.Context, account domain.Account) (int64, error) {
	price, ok := d.prices[account]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "actor not registered")
	}
	return price, nil
}

func (d *fakeDirectory) IsDoctor(_ context.Context, account domain.Account) bool {
	_, ok := d.prices[account]
	return ok
}

type fixture struct {
	svc    *Service
	store  *InMemoryStore
	book   *ledger.InMemoryBook
	gate   *fakeGate
	events *audit.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  NewInMemoryStore(),
		book:   ledger.NewInMemoryBook(),
		gate:   &fakeGate{denied: map[domain.Account]error{}},
		events: audit.NewInMemoryStore(),
	}
	svc, err := New(f.store, f.book, f.gate,
		&fakeDirectory{prices: map[domain.Account]int64{drDana: 100, drOther: 75}},
		WithPublisher(audit.NewPublisher(f.events, nil)),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), workflowNow)
}

func TestService_Request(t *testing.T) {
	t.Run("exact amount opens a paid unfulfilled record", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)

		id, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)
		assert.Equal(t, domain.ReportID(1), id)

		report, err := f.svc.Report(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, drDana, report.Provider)
		assert.Equal(t, patPete, report.Requester)
		assert.Equal(t, int64(100), report.AmountHeld)
		assert.True(t, report.Paid)
		assert.False(t, report.Fulfilled)
		assert.Empty(t, report.Summary)
		assert.Equal(t, workflowNow, report.IssuedAt)

		assert.Equal(t, int64(100), f.book.EscrowTotal())

		requested := f.events.ByAction(audit.ActionRecordRequested)
		require.Len(t, requested, 1)
		assert.Equal(t, patPete, requested[0].Actor)
		assert.Equal(t, int64(100), requested[0].Amount)
	})

	t.Run("ids increase strictly across requests", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)

		first, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)
		second, err := f.svc.Request(ctx, patPete, drOther, "1990-04-02", "followup", 75)
		require.NoError(t, err)

		assert.Equal(t, domain.ReportID(1), first)
		assert.Equal(t, domain.ReportID(2), second)
	})

	t.Run("patient created once, later requests only touch the timestamp", func(t *testing.T) {
		f := newFixture(t)
		ctx := testCtx()
		_, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)

		later := requestcontext.WithTime(context.Background(), workflowNow.Add(48*time.Hour))
		_, err = f.svc.Request(later, patPete, drDana, "2001-01-01", "followup", 100)
		require.NoError(t, err)

		patient, err := f.svc.Patient(ctx, patPete)
		require.NoError(t, err)
		assert.Equal(t, "1990-04-02", patient.DateOfBirth)
		assert.Equal(t, workflowNow.Add(48*time.Hour), patient.LastRequestAt)
	})

	t.Run("unknown provider leaves no trace", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)

		_, err := f.svc.Request(ctx, patPete, "dr-ghost", "1990-04-02", "checkup", 100)

		assert.ErrorIs(t, err, ErrProviderNotFound)
		assert.Equal(t, int64(0), f.book.EscrowTotal())
		assert.Empty(t, f.events.Events())
	})

	t.Run("amount must match the price exactly", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)

		for _, amount := range []int64{99, 101, 0, -100} {
			_, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", amount)
			assert.ErrorIs(t, err, ErrAmountMismatch, "amount %d", amount)
		}
		assert.Equal(t, int64(0), f.book.EscrowTotal())
		_, err := f.svc.Report(ctx, 1)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("gate denial blocks the request", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		f.gate.denied[patPete] = dErrors.New(dErrors.CodeForbidden, "admission denied")

		_, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)

		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Equal(t, int64(0), f.book.EscrowTotal())
	})
}

func TestService_Fulfill(t *testing.T) {
	t.Run("provider fulfills and funds stay held", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		id, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)

		later := requestcontext.WithTime(context.Background(), workflowNow.Add(time.Hour))
		require.NoError(t, f.svc.Fulfill(later, drDana, id, "no findings"))

		report, err := f.svc.Report(ctx, id)
		require.NoError(t, err)
		assert.True(t, report.Fulfilled)
		assert.Equal(t, "no findings", report.Summary)
		assert.Equal(t, workflowNow.Add(time.Hour), report.IssuedAt)
		assert.Equal(t, int64(100), report.AmountHeld)
		assert.Equal(t, int64(100), f.book.EscrowTotal())

		fulfilled := f.events.ByAction(audit.ActionRecordFulfilled)
		require.Len(t, fulfilled, 1)
		assert.Equal(t, drDana, fulfilled[0].Actor)
	})

	t.Run("caller without the doctor role is refused", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		id, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.Fulfill(ctx, patPete, id, "forged"), ErrDoctorRoleRequired)
	})

	t.Run("unknown report", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		assert.ErrorIs(t, f.svc.Fulfill(ctx, drDana, 42, "void"), ErrRecordNotFound)
	})
}

func TestService_Release(t *testing.T) {
	open := func(t *testing.T, f *fixture, ctx context.Context) domain.ReportID {
		t.Helper()
		id, err := f.svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
		require.NoError(t, err)
		return id
	}

	t.Run("release pays the provider exactly once", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		id := open(t, f, ctx)
		require.NoError(t, f.svc.Fulfill(ctx, drDana, id, "summary"))

		amount, err := f.svc.Release(ctx, drDana, id)
		require.NoError(t, err)
		assert.Equal(t, int64(100), amount)
		assert.Equal(t, int64(100), f.book.PaidTo(drDana))
		assert.Equal(t, int64(0), f.book.EscrowTotal())

		report, err := f.svc.Report(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), report.AmountHeld)

		released := f.events.ByAction(audit.ActionFundsReleased)
		require.Len(t, released, 1)
		assert.Equal(t, int64(100), released[0].Amount)

		// Second release finds nothing held.
		_, err = f.svc.Release(ctx, drDana, id)
		assert.ErrorIs(t, err, ErrInvalidReleaseConditions)
		assert.Equal(t, int64(100), f.book.PaidTo(drDana))
	})

	t.Run("release before fulfillment is refused", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		id := open(t, f, ctx)

		_, err := f.svc.Release(ctx, drDana, id)
		assert.ErrorIs(t, err, ErrInvalidReleaseConditions)
		assert.Equal(t, int64(100), f.book.EscrowTotal())
	})

	t.Run("only the report's provider may release", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		id := open(t, f, ctx)
		require.NoError(t, f.svc.Fulfill(ctx, drDana, id, "summary"))

		_, err := f.svc.Release(ctx, drOther, id)
		assert.ErrorIs(t, err, ErrNotRecordOwner)
	})

	t.Run("unknown report", func(t *testing.T) {
		ctx := testCtx()
		f := newFixture(t)
		_, err := f.svc.Release(ctx, drDana, 42)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

// failingPatients accepts reports but refuses every profile write.
type failingPatients struct {
	*InMemoryStore
}

func (s *failingPatients) SavePatient(context.Context, Patient) error {
	return dErrors.New(dErrors.CodeUnavailable, "profile store offline")
}

func TestService_RequestPatientWriteFailureLeavesNoTrace(t *testing.T) {
	ctx := testCtx()
	book := ledger.NewInMemoryBook()
	events := audit.NewInMemoryStore()
	svc, err := New(&failingPatients{InMemoryStore: NewInMemoryStore()}, book,
		&fakeGate{denied: map[domain.Account]error{}},
		&fakeDirectory{prices: map[domain.Account]int64{drDana: 100}},
		WithPublisher(audit.NewPublisher(events, nil)),
	)
	require.NoError(t, err)

	_, err = svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	// Neither the report nor the custody hold survives the failure.
	_, err = svc.Report(ctx, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Equal(t, int64(0), book.EscrowTotal())
	assert.Empty(t, events.Events())
}

// failingBook holds fine but refuses every payout.
type failingBook struct {
	*ledger.InMemoryBook
}

func (b *failingBook) Payout(context.Context, domain.Account, int64) error {
	return dErrors.New(dErrors.CodeUnavailable, "settlement offline")
}

func TestService_ReleasePayoutFailureLeavesRecordZeroed(t *testing.T) {
	ctx := testCtx()
	book := &failingBook{InMemoryBook: ledger.NewInMemoryBook()}
	events := audit.NewInMemoryStore()
	svc, err := New(NewInMemoryStore(), book, &fakeGate{denied: map[domain.Account]error{}},
		&fakeDirectory{prices: map[domain.Account]int64{drDana: 100}},
		WithPublisher(audit.NewPublisher(events, nil)),
	)
	require.NoError(t, err)

	id, err := svc.Request(ctx, patPete, drDana, "1990-04-02", "checkup", 100)
	require.NoError(t, err)
	require.NoError(t, svc.Fulfill(ctx, drDana, id, "summary"))

	_, err = svc.Release(ctx, drDana, id)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	// The held amount was captured and zeroed before the payout attempt;
	// the failure does not restore it.
	report, err := svc.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.AmountHeld)

	_, err = svc.Release(ctx, drDana, id)
	assert.ErrorIs(t, err, ErrInvalidReleaseConditions)
	assert.Empty(t, events.ByAction(audit.ActionFundsReleased))
}
