package models

import (
	"encoding/json"
	"time"

	"guardpost/pkg/domain"
	dErrors "guardpost/pkg/domain-errors"
)

// Kind distinguishes the applicant populations that share the lifecycle.
type Kind string

const (
	KindGuard      Kind = "guard"
	KindClient     Kind = "client"
	KindSupervisor Kind = "supervisor"
	KindOperations Kind = "operations"
	KindManagement Kind = "management"
)

// ParseKind validates an applicant kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.known() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown applicant kind: "+s)
	}
	return k, nil
}

func (k Kind) known() bool {
	switch k {
	case KindGuard, KindClient, KindSupervisor, KindOperations, KindManagement:
		return true
	}
	return false
}

// Applicant is the aggregate progressing through the account lifecycle.
//
// Invariants:
//   - Status only changes through CanTransitionTo/ApplyTransition
//   - SubmittedAt is immutable once set
//   - Records are never deleted; terminal states are retained for audit
//   - LinkedAccountID is set at most once, when the applicant activates
type Applicant struct {
	ID              domain.ApplicantID `json:"id"`
	Kind            Kind               `json:"kind"`
	Status          Status             `json:"status"`
	Payload         json.RawMessage    `json:"payload,omitempty"`
	LinkedAccountID *domain.AccountID  `json:"linked_account_id,omitempty"`
	SubmittedAt     time.Time          `json:"submitted_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewApplicant constructs an applicant at first submission. A fully
// completed multi-section form lands directly in pending_review; a partial
// one starts at incomplete.
func NewApplicant(id domain.ApplicantID, kind Kind, payload json.RawMessage, complete bool, now time.Time) (*Applicant, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant id is required")
	}
	if !kind.known() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown applicant kind")
	}
	status := StatusIncomplete
	if complete {
		status = StatusPendingReview
	}
	return &Applicant{
		ID:          id,
		Kind:        kind,
		Status:      status,
		Payload:     payload,
		SubmittedAt: now,
		UpdatedAt:   now,
	}, nil
}

// CanTransitionTo checks the transition graph for this applicant's kind.
// Returns an error if the edge is not legal. Use with ApplyTransition.
func (a *Applicant) CanTransitionTo(to Status) error {
	if !IsLegalTransition(a.Kind, a.Status, to) {
		return dErrors.New(dErrors.CodeIllegalTransition,
			"cannot transition "+string(a.Kind)+" applicant from "+string(a.Status)+" to "+string(to))
	}
	return nil
}

// ApplyTransition moves the applicant to the new status. Call
// CanTransitionTo first to validate the edge.
func (a *Applicant) ApplyTransition(to Status, now time.Time) {
	a.Status = to
	a.UpdatedAt = now
}

// LinkAccount records the activated account id. Linking twice is an
// invariant violation: provisioning must be idempotent upstream.
func (a *Applicant) LinkAccount(accountID domain.AccountID) error {
	if a.LinkedAccountID != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "applicant already has a linked account")
	}
	a.LinkedAccountID = &accountID
	return nil
}
