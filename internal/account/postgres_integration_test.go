//go:build integration

package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"guardpost/pkg/domain"
	"guardpost/pkg/testutil/containers"
)

type PostgresProvisionerSuite struct {
	suite.Suite
	pg          *containers.PostgresContainer
	provisioner *Postgres
	ctx         context.Context
}

func TestPostgresProvisionerSuite(t *testing.T) {
	suite.Run(t, new(PostgresProvisionerSuite))
}

func (s *PostgresProvisionerSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.provisioner = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresProvisionerSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(context.Background())
}

func (s *PostgresProvisionerSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
}

func (s *PostgresProvisionerSuite) TestEnsureAccountIsIdempotent() {
	applicantID := domain.NewApplicantID()

	first, err := s.provisioner.EnsureAccount(s.ctx, applicantID, "guard")
	s.Require().NoError(err)
	s.False(first.IsNil())

	second, err := s.provisioner.EnsureAccount(s.ctx, applicantID, "guard")
	s.Require().NoError(err)
	s.Equal(first, second)

	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(s.ctx,
		`SELECT COUNT(*) FROM accounts`).Scan(&count))
	s.Equal(1, count)
}

func (s *PostgresProvisionerSuite) TestSeparateApplicantsGetSeparateAccounts() {
	a, err := s.provisioner.EnsureAccount(s.ctx, domain.NewApplicantID(), "guard")
	s.Require().NoError(err)
	b, err := s.provisioner.EnsureAccount(s.ctx, domain.NewApplicantID(), "client")
	s.Require().NoError(err)
	s.NotEqual(a, b)
}
