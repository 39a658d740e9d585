// Package account provisions the active account that backs an approved
// applicant. The lifecycle engine only knows provisioning must happen
// exactly once per applicant reaching active; account ownership beyond that
// belongs to the surrounding identity system.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"guardpost/pkg/domain"
)

// Account is the activated counterpart of an approved applicant.
type Account struct {
	ID          domain.AccountID
	ApplicantID domain.ApplicantID
	Kind        string
	// BootstrapHash is the bcrypt hash of the one-time credential issued
	// at provisioning. The cleartext is returned once and never stored.
	BootstrapHash string
	CreatedAt     time.Time
}

// Provisioner creates accounts idempotently: asking twice for the same
// applicant returns the same account id and creates nothing new.
type Provisioner interface {
	EnsureAccount(ctx context.Context, applicantID domain.ApplicantID, kind string) (domain.AccountID, error)
}

// newBootstrapCredential issues a random one-time credential and its hash.
func newBootstrapCredential() (cleartext, hash string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate bootstrap credential: %w", err)
	}
	cleartext = base64.RawURLEncoding.EncodeToString(raw)
	hashed, err := bcrypt.GenerateFromPassword([]byte(cleartext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash bootstrap credential: %w", err)
	}
	return cleartext, string(hashed), nil
}
