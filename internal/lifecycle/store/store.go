// Package store persists applicant records.
//
// Stores are interface-driven so the engine stays testable and storage can
// be swapped without rewiring business code. Implementations return
// sentinel errors; the service layer translates them.
package store

import (
	"context"

	"guardpost/internal/lifecycle/models"
	"guardpost/pkg/domain"
)

// ApplicantStore is the persistence boundary of the lifecycle engine.
type ApplicantStore interface {
	// Create inserts a new applicant. Returns sentinel.ErrAlreadyExists
	// if the id is taken.
	Create(ctx context.Context, applicant *models.Applicant) error

	// Load returns the applicant or sentinel.ErrNotFound.
	Load(ctx context.Context, id domain.ApplicantID) (*models.Applicant, error)

	// Save writes the applicant using optimistic concurrency: expected is
	// the status the caller last observed. Returns sentinel.ErrConflict
	// if the stored status changed underneath, sentinel.ErrNotFound if
	// the record is missing.
	Save(ctx context.Context, applicant *models.Applicant, expected models.Status) error
}
