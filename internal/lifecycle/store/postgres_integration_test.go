//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"guardpost/internal/lifecycle/models"
	"guardpost/pkg/domain"
	"guardpost/pkg/platform/sentinel"
	"guardpost/pkg/platform/tx"
	"guardpost/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
}

func (s *PostgresStoreSuite) newApplicant() *models.Applicant {
	a, err := models.NewApplicant(domain.NewApplicantID(), models.KindGuard, []byte(`{"name":"test"}`), true, time.Now().UTC())
	s.Require().NoError(err)
	return a
}

func (s *PostgresStoreSuite) TestCreateAndLoad() {
	a := s.newApplicant()
	s.Require().NoError(s.store.Create(s.ctx, a))

	found, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
	s.Equal(a.Kind, found.Kind)
	s.Equal(models.StatusPendingReview, found.Status)
	s.JSONEq(`{"name":"test"}`, string(found.Payload))
	s.Nil(found.LinkedAccountID)

	s.ErrorIs(s.store.Create(s.ctx, a), sentinel.ErrAlreadyExists)
}

func (s *PostgresStoreSuite) TestLoadMissing() {
	_, err := s.store.Load(s.ctx, domain.NewApplicantID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestOptimisticSave() {
	a := s.newApplicant()
	s.Require().NoError(s.store.Create(s.ctx, a))

	from := a.Status
	a.ApplyTransition(models.StatusApproved, time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, a, from))

	// The token the first writer consumed no longer matches.
	stale := *a
	stale.ApplyTransition(models.StatusDenied, time.Now().UTC())
	s.ErrorIs(s.store.Save(s.ctx, &stale, models.StatusPendingReview), sentinel.ErrConflict)

	found, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, found.Status)
}

func (s *PostgresStoreSuite) TestSaveMissing() {
	a := s.newApplicant()
	s.ErrorIs(s.store.Save(s.ctx, a, a.Status), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSavePersistsLinkedAccount() {
	a := s.newApplicant()
	s.Require().NoError(s.store.Create(s.ctx, a))

	accountID := domain.NewAccountID()
	s.Require().NoError(a.LinkAccount(accountID))
	s.Require().NoError(s.store.Save(s.ctx, a, a.Status))

	found, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.LinkedAccountID)
	s.Equal(accountID, *found.LinkedAccountID)
}

func (s *PostgresStoreSuite) TestSaveRollsBackWithTransaction() {
	a := s.newApplicant()
	s.Require().NoError(s.store.Create(s.ctx, a))

	runner := tx.NewSQL(s.pg.DB)
	sentinelErr := errors.New("force rollback")

	err := runner.RunInTx(s.ctx, func(txCtx context.Context) error {
		from := a.Status
		a.ApplyTransition(models.StatusApproved, time.Now().UTC())
		if err := s.store.Save(txCtx, a, from); err != nil {
			return err
		}
		return sentinelErr
	})
	s.Require().ErrorIs(err, sentinelErr)

	found, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPendingReview, found.Status, "rolled back save must not be visible")
}
