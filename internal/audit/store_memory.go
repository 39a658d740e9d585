package audit

import (
	"context"
	"sync"

	"guardpost/pkg/domain"
)

// InMemory appends entries to a slice, preserving insertion order.
type InMemory struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemory) ListByApplicant(_ context.Context, applicantID domain.ApplicantID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if e.ApplicantID == applicantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Snapshot implements tx.Snapshotter for grouped writes in tests.
func (s *InMemory) Snapshot() func() {
	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		if len(s.entries) > n {
			s.entries = s.entries[:n]
		}
		s.mu.Unlock()
	}
}
