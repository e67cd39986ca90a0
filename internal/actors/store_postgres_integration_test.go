//go:build integration

package actors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"medgate/pkg/domain"
	"medgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	doctors *PostgresDoctorStore
	admins  *PostgresAdminStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.pg.ApplySchema(context.Background(), Schema))
	s.doctors = NewPostgresDoctorStore(s.pg.DB)
	s.admins = NewPostgresAdminStore(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "doctors", "admins"))
}

func (s *PostgresStoreSuite) TestDoctorRoundTrip() {
	ctx := context.Background()
	doc := Doctor{Account: "dr-1", Specialty: "oncology", PricePerSession: 250, Availability: "tue-thu", RatingLabel: "senior"}

	s.Require().NoError(s.doctors.Save(ctx, doc))

	got, err := s.doctors.Find(ctx, "dr-1")
	s.Require().NoError(err)
	s.Equal(doc, got)

	s.ErrorIs(s.doctors.Save(ctx, doc), ErrAlreadyExists)

	s.Require().NoError(s.doctors.Delete(ctx, "dr-1"))
	_, err = s.doctors.Find(ctx, "dr-1")
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.doctors.Delete(ctx, "dr-1"), ErrNotFound)
}

func (s *PostgresStoreSuite) TestSwapRemovalKeepsEnumerationDense() {
	ctx := context.Background()
	for _, a := range []domain.Account{"a", "b", "c", "d"} {
		s.Require().NoError(s.admins.Save(ctx, Admin{Account: a}))
	}

	s.Require().NoError(s.admins.Delete(ctx, "b"))

	list, err := s.admins.List(ctx)
	s.Require().NoError(err)
	s.Equal([]domain.Account{"a", "d", "c"}, list)

	// The moved element must remain addressable and removable.
	s.Require().NoError(s.admins.Delete(ctx, "d"))
	list, err = s.admins.List(ctx)
	s.Require().NoError(err)
	s.Equal([]domain.Account{"a", "c"}, list)
}

func (s *PostgresStoreSuite) TestListEmpty() {
	list, err := s.doctors.List(context.Background())
	s.Require().NoError(err)
	s.Empty(list)
}
