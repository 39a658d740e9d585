package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"guardpost/internal/lifecycle/models"
	"guardpost/pkg/domain"
	"guardpost/pkg/platform/sentinel"
	txcontext "guardpost/pkg/platform/tx"
)

// Postgres persists applicants in the applicants table. Writes participate
// in a surrounding transaction when one is carried in the context.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, applicant *models.Applicant) error {
	query := `
		INSERT INTO applicants (id, kind, status, payload, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(applicant.ID),
		string(applicant.Kind),
		string(applicant.Status),
		[]byte(applicant.Payload),
		applicant.SubmittedAt,
		applicant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert applicant: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, id domain.ApplicantID) (*models.Applicant, error) {
	query := `
		SELECT id, kind, status, payload, linked_account_id, submitted_at, updated_at
		FROM applicants
		WHERE id = $1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id))
	return scanApplicant(row)
}

// Save applies the update only if the stored status still matches the
// caller's last-seen status. Zero rows updated means either the record is
// gone or another actor won the race; the follow-up existence check tells
// the two apart.
func (s *Postgres) Save(ctx context.Context, applicant *models.Applicant, expected models.Status) error {
	query := `
		UPDATE applicants
		SET status = $2, payload = $3, linked_account_id = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`
	var linked any
	if applicant.LinkedAccountID != nil {
		linked = uuid.UUID(*applicant.LinkedAccountID)
	}
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(applicant.ID),
		string(applicant.Status),
		[]byte(applicant.Payload),
		linked,
		applicant.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applicants WHERE id = $1)`, uuid.UUID(applicant.ID),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check applicant existence: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func scanApplicant(row *sql.Row) (*models.Applicant, error) {
	var (
		a      models.Applicant
		id     uuid.UUID
		kind   string
		status string
		linked *uuid.UUID
	)
	err := row.Scan(&id, &kind, &status, (*[]byte)(&a.Payload), &linked, &a.SubmittedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan applicant: %w", err)
	}
	a.ID = domain.ApplicantID(id)
	a.Kind = models.Kind(kind)
	a.Status = models.Status(status)
	if linked != nil {
		accountID := domain.AccountID(*linked)
		a.LinkedAccountID = &accountID
	}
	return &a, nil
}
