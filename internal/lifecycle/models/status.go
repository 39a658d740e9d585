package models

import (
	dErrors "guardpost/pkg/domain-errors"
)

// Status is a lifecycle state of an applicant.
type Status string

const (
	StatusIncomplete    Status = "incomplete"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusDenied        Status = "denied"
	StatusActive        Status = "active"
	StatusSuspended     Status = "suspended"
	StatusAppealed      Status = "appealed"
	StatusBlocked       Status = "blocked"

	// StatusFieldTraining exists only for Guard applicants, between
	// approval and activation.
	StatusFieldTraining Status = "field_training_requested"
)

// statusAliases maps legacy vocabulary seen in older records to the
// canonical state. Applied at parse time only; storage and audit always
// carry the canonical form.
var statusAliases = map[string]Status{
	"under_review": StatusPendingReview,
}

// sharedTransitions is the directed graph of legal transitions common to
// every applicant kind. Terminal states (denied, blocked) have no entry.
var sharedTransitions = map[Status][]Status{
	StatusIncomplete:    {StatusPendingReview, StatusBlocked},
	StatusPendingReview: {StatusApproved, StatusDenied, StatusBlocked},
	StatusApproved:      {StatusActive, StatusAppealed, StatusSuspended, StatusBlocked},
	StatusActive:        {StatusSuspended, StatusAppealed, StatusBlocked},
	StatusSuspended:     {StatusActive, StatusBlocked},
	StatusAppealed:      {StatusApproved, StatusDenied, StatusBlocked},
}

// guardTransitions overlays the field-training detour on the shared graph.
var guardTransitions = map[Status][]Status{
	StatusApproved:      {StatusActive, StatusAppealed, StatusSuspended, StatusBlocked, StatusFieldTraining},
	StatusFieldTraining: {StatusActive, StatusBlocked},
}

// ParseStatus validates a status string, normalizing known aliases.
func ParseStatus(s string) (Status, error) {
	if canonical, ok := statusAliases[s]; ok {
		return canonical, nil
	}
	st := Status(s)
	if !st.known() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown status: "+s)
	}
	return st, nil
}

func (s Status) known() bool {
	switch s {
	case StatusIncomplete, StatusPendingReview, StatusApproved, StatusDenied,
		StatusActive, StatusSuspended, StatusAppealed, StatusBlocked, StatusFieldTraining:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDenied || s == StatusBlocked
}

// RequiresJustification reports whether a transition INTO this status is a
// consequential decision that must carry a non-empty note. Covers appeal
// resolutions, which land on approved or denied.
func (s Status) RequiresJustification() bool {
	switch s {
	case StatusApproved, StatusDenied, StatusBlocked:
		return true
	}
	return false
}

// definedFor reports whether the status exists in the given kind's
// vocabulary at all.
func (s Status) definedFor(kind Kind) bool {
	if s == StatusFieldTraining {
		return kind == KindGuard
	}
	return s.known()
}

// IsLegalTransition reports whether from -> to is an edge of the transition
// graph for the given applicant kind. States undefined for the kind are
// rejected outright.
func IsLegalTransition(kind Kind, from, to Status) bool {
	if !kind.known() || !from.definedFor(kind) || !to.definedFor(kind) {
		return false
	}
	targets, ok := sharedTransitions[from]
	if kind == KindGuard {
		if overlay, hit := guardTransitions[from]; hit {
			targets, ok = overlay, true
		}
	}
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}
