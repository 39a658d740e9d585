package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"guardpost/internal/lifecycle/models"
	"guardpost/pkg/domain"
	"guardpost/pkg/platform/sentinel"
)

type ApplicantStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ApplicantStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestApplicantStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicantStoreSuite))
}

func (s *ApplicantStoreSuite) newApplicant(kind models.Kind) *models.Applicant {
	a, err := models.NewApplicant(domain.NewApplicantID(), kind, []byte(`{"name":"test"}`), true, time.Now())
	s.Require().NoError(err)
	return a
}

func (s *ApplicantStoreSuite) TestCreateAndLoad() {
	s.Run("creates and loads applicant", func() {
		a := s.newApplicant(models.KindGuard)
		s.Require().NoError(s.store.Create(s.ctx, a))

		found, err := s.store.Load(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(a.Kind, found.Kind)
		s.Equal(a.Status, found.Status)
	})

	s.Run("rejects duplicate id", func() {
		a := s.newApplicant(models.KindClient)
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.ErrorIs(s.store.Create(s.ctx, a), sentinel.ErrAlreadyExists)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Load(s.ctx, domain.NewApplicantID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ApplicantStoreSuite) TestOptimisticSave() {
	s.Run("saves when token matches", func() {
		a := s.newApplicant(models.KindGuard)
		s.Require().NoError(s.store.Create(s.ctx, a))

		from := a.Status
		a.ApplyTransition(models.StatusApproved, time.Now())
		s.Require().NoError(s.store.Save(s.ctx, a, from))

		found, err := s.store.Load(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, found.Status)
	})

	s.Run("rejects stale token", func() {
		a := s.newApplicant(models.KindGuard)
		s.Require().NoError(s.store.Create(s.ctx, a))

		a.ApplyTransition(models.StatusApproved, time.Now())
		s.Require().NoError(s.store.Save(s.ctx, a, models.StatusPendingReview))

		// A second writer holding the old token loses.
		stale := *a
		stale.ApplyTransition(models.StatusDenied, time.Now())
		s.ErrorIs(s.store.Save(s.ctx, &stale, models.StatusPendingReview), sentinel.ErrConflict)

		found, err := s.store.Load(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, found.Status, "losing write must not apply")
	})

	s.Run("returns ErrNotFound for missing record", func() {
		a := s.newApplicant(models.KindClient)
		s.ErrorIs(s.store.Save(s.ctx, a, a.Status), sentinel.ErrNotFound)
	})
}

func (s *ApplicantStoreSuite) TestLoadReturnsCopy() {
	a := s.newApplicant(models.KindGuard)
	s.Require().NoError(s.store.Create(s.ctx, a))

	first, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	first.Status = models.StatusBlocked

	second, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPendingReview, second.Status, "mutating a loaded copy must not leak into the store")
}

func (s *ApplicantStoreSuite) TestSnapshotRestore() {
	a := s.newApplicant(models.KindGuard)
	s.Require().NoError(s.store.Create(s.ctx, a))

	restore := s.store.Snapshot()

	from := a.Status
	a.ApplyTransition(models.StatusApproved, time.Now())
	s.Require().NoError(s.store.Save(s.ctx, a, from))

	restore()

	found, err := s.store.Load(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPendingReview, found.Status)
}
