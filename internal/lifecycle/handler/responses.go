package handler

import (
	"encoding/json"
	"time"

	"guardpost/internal/audit"
	"guardpost/internal/lifecycle/models"
	"guardpost/internal/lifecycle/service"
)

// ApplicantResponse is the wire form of an applicant record.
type ApplicantResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Status          string          `json:"status"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	LinkedAccountID string          `json:"linked_account_id,omitempty"`
	SubmittedAt     time.Time       `json:"submitted_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func FromApplicant(a *models.Applicant) ApplicantResponse {
	resp := ApplicantResponse{
		ID:          a.ID.String(),
		Kind:        string(a.Kind),
		Status:      string(a.Status),
		Payload:     a.Payload,
		SubmittedAt: a.SubmittedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.LinkedAccountID != nil {
		resp.LinkedAccountID = a.LinkedAccountID.String()
	}
	return resp
}

// TransitionResponse reports a committed transition.
type TransitionResponse struct {
	NewStatus    string `json:"new_status"`
	AuditEntryID string `json:"audit_entry_id"`
}

func FromResult(r *service.TransitionResult) TransitionResponse {
	return TransitionResponse{
		NewStatus:    string(r.NewStatus),
		AuditEntryID: r.AuditEntryID.String(),
	}
}

// AuditEntryResponse is the wire form of one trail entry.
type AuditEntryResponse struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	FromStatus      string    `json:"from_status,omitempty"`
	ToStatus        string    `json:"to_status"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByRole string    `json:"performed_by_role"`
	Note            string    `json:"note,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func FromEntries(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:              e.ID.String(),
			Action:          e.Action,
			FromStatus:      e.FromStatus,
			ToStatus:        e.ToStatus,
			PerformedBy:     e.PerformedBy,
			PerformedByRole: e.PerformedByRole,
			Note:            e.Note,
			Timestamp:       e.Timestamp,
		})
	}
	return out
}
