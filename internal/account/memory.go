package account

import (
	"context"
	"sync"
	"time"

	"guardpost/pkg/domain"
)

// InMemory provisions accounts in a map, keyed by applicant id so the
// check-then-create is naturally idempotent.
type InMemory struct {
	mu       sync.Mutex
	accounts map[domain.ApplicantID]Account
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[domain.ApplicantID]Account)}
}

func (p *InMemory) EnsureAccount(_ context.Context, applicantID domain.ApplicantID, kind string) (domain.AccountID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.accounts[applicantID]; ok {
		return existing.ID, nil
	}
	_, hash, err := newBootstrapCredential()
	if err != nil {
		return domain.AccountID{}, err
	}
	acct := Account{
		ID:            domain.NewAccountID(),
		ApplicantID:   applicantID,
		Kind:          kind,
		BootstrapHash: hash,
		CreatedAt:     time.Now(),
	}
	p.accounts[applicantID] = acct
	return acct.ID, nil
}

// Count reports how many accounts exist; used by tests asserting the
// provision-once property.
func (p *InMemory) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.accounts)
}
