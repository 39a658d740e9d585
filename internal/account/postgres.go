package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"guardpost/pkg/domain"
)

// Postgres provisions accounts in the accounts table. The unique constraint
// on applicant_id plus ON CONFLICT DO NOTHING makes concurrent provisioning
// converge on a single row.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) EnsureAccount(ctx context.Context, applicantID domain.ApplicantID, kind string) (domain.AccountID, error) {
	_, hash, err := newBootstrapCredential()
	if err != nil {
		return domain.AccountID{}, err
	}

	insert := `
		INSERT INTO accounts (id, applicant_id, kind, bootstrap_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (applicant_id) DO NOTHING
	`
	_, err = p.db.ExecContext(ctx, insert,
		uuid.New(),
		uuid.UUID(applicantID),
		kind,
		hash,
		time.Now(),
	)
	if err != nil {
		return domain.AccountID{}, fmt.Errorf("insert account: %w", err)
	}

	var accountID uuid.UUID
	err = p.db.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE applicant_id = $1`, uuid.UUID(applicantID),
	).Scan(&accountID)
	if err != nil {
		return domain.AccountID{}, fmt.Errorf("load provisioned account: %w", err)
	}
	return domain.AccountID(accountID), nil
}
