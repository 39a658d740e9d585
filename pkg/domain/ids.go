// Package domain holds identifier primitives shared across the engine.
//
// IDs are distinct types over uuid.UUID so an applicant id can never be
// passed where an account id is expected. Parse functions enforce the
// invariant that ids are valid, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "guardpost/pkg/domain-errors"
)

// ApplicantID identifies an applicant record for its whole lifetime.
type ApplicantID uuid.UUID

// AccountID identifies the activated account linked to an approved applicant.
type AccountID uuid.UUID

// AuditEntryID identifies a single entry in the audit trail.
type AuditEntryID uuid.UUID

// NewApplicantID returns a fresh random applicant id.
func NewApplicantID() ApplicantID { return ApplicantID(uuid.New()) }

// NewAccountID returns a fresh random account id.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// NewAuditEntryID returns a fresh random audit entry id.
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

func (id ApplicantID) String() string  { return uuid.UUID(id).String() }
func (id AccountID) String() string    { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string { return uuid.UUID(id).String() }

func (id ApplicantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AuditEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseApplicantID validates and returns an ApplicantID.
func ParseApplicantID(s string) (ApplicantID, error) {
	u, err := parse(s, "applicant id")
	return ApplicantID(u), err
}

// ParseAccountID validates and returns an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parse(s, "account id")
	return AccountID(u), err
}

// ParseAuditEntryID validates and returns an AuditEntryID.
func ParseAuditEntryID(s string) (AuditEntryID, error) {
	u, err := parse(s, "audit entry id")
	return AuditEntryID(u), err
}

func parse(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}
