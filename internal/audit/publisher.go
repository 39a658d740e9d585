package audit

import (
	"context"
	"fmt"
	"log/slog"

	"guardpost/pkg/domain"
)

// Publisher emits audit entries with fail-closed semantics: the caller
// blocks until the append succeeds, and a failed append must fail the
// operation that produced it. Every consequential decision is attributable
// or it does not happen.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit validates and appends an entry, assigning an id if unset.
func (p *Publisher) Emit(ctx context.Context, entry Entry) (domain.AuditEntryID, error) {
	if entry.ApplicantID.IsNil() {
		return domain.AuditEntryID{}, fmt.Errorf("audit entry requires applicant id")
	}
	if entry.Action == "" {
		return domain.AuditEntryID{}, fmt.Errorf("audit entry requires action")
	}
	if entry.Timestamp.IsZero() {
		return domain.AuditEntryID{}, fmt.Errorf("audit entry requires timestamp")
	}
	if entry.ID.IsNil() {
		entry.ID = domain.NewAuditEntryID()
	}
	if err := p.store.Append(ctx, entry); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit append failed",
				"applicant_id", entry.ApplicantID,
				"action", entry.Action,
				"error", err,
			)
		}
		return domain.AuditEntryID{}, fmt.Errorf("append audit entry: %w", err)
	}
	return entry.ID, nil
}

// Snapshot forwards to the underlying store when it supports in-memory
// rollback so the publisher can join grouped writes.
func (p *Publisher) Snapshot() func() {
	if snap, ok := p.store.(interface{ Snapshot() func() }); ok {
		return snap.Snapshot()
	}
	return func() {}
}

// List returns the applicant's trail in commit order.
func (p *Publisher) List(ctx context.Context, applicantID domain.ApplicantID) ([]Entry, error) {
	return p.store.ListByApplicant(ctx, applicantID)
}
