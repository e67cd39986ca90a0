//go:build integration

package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"medgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.pg.ApplySchema(context.Background(), Schema))
	s.store = NewPostgresStore(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "medical_reports", "patients"))
}

func (s *PostgresStoreSuite) TestReportRoundTrip() {
	ctx := context.Background()
	issued := time.Now().UTC().Truncate(time.Microsecond)

	id, err := s.store.Create(ctx, MedicalReport{
		IssuedAt:   issued,
		Condition:  "checkup",
		Provider:   "dr-1",
		Requester:  "pat-1",
		AmountHeld: 100,
		Paid:       true,
	})
	s.Require().NoError(err)
	s.Positive(uint64(id))

	report, err := s.store.Report(ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(100), report.AmountHeld)
	s.True(report.Paid)
	s.False(report.Fulfilled)
	s.True(report.IssuedAt.Equal(issued))

	report.Fulfilled = true
	report.Summary = "all clear"
	s.Require().NoError(s.store.Update(ctx, report))

	got, err := s.store.Report(ctx, id)
	s.Require().NoError(err)
	s.True(got.Fulfilled)
	s.Equal("all clear", got.Summary)
}

func (s *PostgresStoreSuite) TestUpdateMissingReport() {
	s.ErrorIs(s.store.Update(context.Background(), MedicalReport{ID: 404}), ErrRecordNotFound)
}

func (s *PostgresStoreSuite) TestPatientUpsertKeepsDateOfBirth() {
	ctx := context.Background()
	first := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.SavePatient(ctx, Patient{Account: "pat-1", DateOfBirth: "1990-04-02", LastRequestAt: first}))
	s.Require().NoError(s.store.SavePatient(ctx, Patient{Account: "pat-1", DateOfBirth: "2001-01-01", LastRequestAt: first.Add(time.Hour)}))

	patient, err := s.store.Patient(ctx, "pat-1")
	s.Require().NoError(err)
	s.Equal("1990-04-02", patient.DateOfBirth)
	s.True(patient.LastRequestAt.Equal(first.Add(time.Hour)))
}
