// Package audit keeps the append-only trail of lifecycle transitions.
//
// Entries are immutable once written and retrievable in insertion order per
// applicant, independent of the applicant's current state, so history
// survives re-applications.
package audit

import (
	"time"

	"guardpost/pkg/domain"
)

// Actions recorded in the trail.
const (
	ActionApplicationSubmitted = "application_submitted"
	ActionStatusTransition     = "status_transition"
)

// Entry is one immutable audit record.
type Entry struct {
	ID          domain.AuditEntryID `json:"id"`
	ApplicantID domain.ApplicantID  `json:"applicant_id"`
	Action      string              `json:"action"`
	FromStatus  string              `json:"from_status,omitempty"`
	ToStatus    string              `json:"to_status"`
	// PerformedBy is the acting subject id; PerformedByRole its role claim.
	PerformedBy     string    `json:"performed_by"`
	PerformedByRole string    `json:"performed_by_role"`
	Note            string    `json:"note,omitempty"`
	RequestID       string    `json:"request_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
