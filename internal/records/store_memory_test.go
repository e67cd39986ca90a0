package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/pkg/domain"
)

func TestInMemoryStore_ReportIDsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first, err := store.Create(ctx, MedicalReport{Provider: "dr-1", Requester: "pat-1"})
	require.NoError(t, err)
	second, err := store.Create(ctx, MedicalReport{Provider: "dr-1", Requester: "pat-2"})
	require.NoError(t, err)

	assert.Equal(t, domain.ReportID(1), first)
	assert.Equal(t, domain.ReportID(2), second)
}

func TestInMemoryStore_DiscardedIDNotReused(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Create(ctx, MedicalReport{Provider: "dr-1"})
	require.NoError(t, err)
	require.NoError(t, store.Discard(ctx, id))

	_, err = store.Report(ctx, id)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	next, err := store.Create(ctx, MedicalReport{Provider: "dr-1"})
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestInMemoryStore_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	id, err := store.Create(ctx, MedicalReport{Provider: "dr-1", Requester: "pat-1", AmountHeld: 100, Paid: true})
	require.NoError(t, err)

	report, err := store.Report(ctx, id)
	require.NoError(t, err)
	report.Fulfilled = true
	report.Summary = "all clear"
	require.NoError(t, store.Update(ctx, report))

	got, err := store.Report(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Fulfilled)
	assert.Equal(t, "all clear", got.Summary)

	assert.ErrorIs(t, store.Update(ctx, MedicalReport{ID: 99}), ErrRecordNotFound)
}

func TestInMemoryStore_Patients(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_, err := store.Patient(ctx, "pat-1")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	created := Patient{Account: "pat-1", DateOfBirth: "1990-04-02", LastRequestAt: time.Now()}
	require.NoError(t, store.SavePatient(ctx, created))

	got, err := store.Patient(ctx, "pat-1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}
