package store

import (
	"context"
	"maps"
	"sync"

	"guardpost/internal/lifecycle/models"
	"guardpost/pkg/domain"
	"guardpost/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded applicant store for tests and local runs.
type InMemory struct {
	mu         sync.RWMutex
	applicants map[domain.ApplicantID]models.Applicant
}

func NewInMemory() *InMemory {
	return &InMemory{applicants: make(map[domain.ApplicantID]models.Applicant)}
}

func (s *InMemory) Create(_ context.Context, applicant *models.Applicant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.applicants[applicant.ID]; exists {
		return sentinel.ErrAlreadyExists
	}
	s.applicants[applicant.ID] = clone(applicant)
	return nil
}

func (s *InMemory) Load(_ context.Context, id domain.ApplicantID) (*models.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.applicants[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(&stored)
	return &out, nil
}

func (s *InMemory) Save(_ context.Context, applicant *models.Applicant, expected models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.applicants[applicant.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Status != expected {
		return sentinel.ErrConflict
	}
	s.applicants[applicant.ID] = clone(applicant)
	return nil
}

// Snapshot implements tx.Snapshotter so in-memory transactions can roll the
// store back when a grouped write fails.
func (s *InMemory) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.applicants)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.applicants = saved
		s.mu.Unlock()
	}
}

// clone copies the record so callers cannot mutate stored state through
// shared pointers.
func clone(a *models.Applicant) models.Applicant {
	out := *a
	if a.Payload != nil {
		out.Payload = append([]byte(nil), a.Payload...)
	}
	if a.LinkedAccountID != nil {
		linked := *a.LinkedAccountID
		out.LinkedAccountID = &linked
	}
	return out
}
