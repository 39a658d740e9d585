package audit

import (
	"context"

	"guardpost/pkg/domain"
)

// Store is the persistence boundary for the trail. Append-only: there is no
// update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListByApplicant returns entries in the order they were committed.
	ListByApplicant(ctx context.Context, applicantID domain.ApplicantID) ([]Entry, error)
}
