package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"guardpost/pkg/domain"
	txcontext "guardpost/pkg/platform/tx"
)

// Postgres persists the trail in the audit_trail table. A bigserial seq
// column gives a total commit order per applicant; the table carries no
// update or delete paths.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_trail (
			id, applicant_id, action, from_status, to_status,
			performed_by, performed_by_role, note, request_id, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.ApplicantID),
		entry.Action,
		entry.FromStatus,
		entry.ToStatus,
		entry.PerformedBy,
		entry.PerformedByRole,
		entry.Note,
		entry.RequestID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Postgres) ListByApplicant(ctx context.Context, applicantID domain.ApplicantID) ([]Entry, error) {
	query := `
		SELECT id, applicant_id, action, from_status, to_status,
		       performed_by, performed_by_role, note, request_id, timestamp
		FROM audit_trail
		WHERE applicant_id = $1
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(applicantID))
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			id          uuid.UUID
			applicantID uuid.UUID
		)
		err := rows.Scan(&id, &applicantID, &e.Action, &e.FromStatus, &e.ToStatus,
			&e.PerformedBy, &e.PerformedByRole, &e.Note, &e.RequestID, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.ID = domain.AuditEntryID(id)
		e.ApplicantID = domain.ApplicantID(applicantID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit trail: %w", err)
	}
	return entries, nil
}
