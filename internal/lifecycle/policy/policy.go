// Package policy decides who may perform which lifecycle transition.
//
// Rules live in a single role × transition table instead of being repeated
// per endpoint. The resolver returns a typed denial for expected "no"
// answers; only malformed input (unknown role or kind) is an error.
package policy

import (
	"guardpost/internal/lifecycle/models"
)

// Decision is the resolver's answer. Reason is populated on denial so the
// caller can log and surface why.
type Decision struct {
	Allowed bool
	Reason  string
}

type edge struct {
	from models.Status
	to   models.Status
}

// rule names the roles that may perform a transition and whether the
// applicant may perform it on their own record.
type rule struct {
	roles       []models.Role
	selfAllowed bool
}

var (
	reviewers   = []models.Role{models.RoleOwner, models.RoleManagement}
	onboarders  = []models.Role{models.RoleOwner, models.RoleManagement, models.RoleSupervisor}
	intakeStaff = []models.Role{models.RoleOwner, models.RoleManagement, models.RoleOperations}
	ownerOnly   = []models.Role{models.RoleOwner}
)

// transitionRules is the consolidated permission matrix. Every legal edge of
// the transition graph must appear here; an edge with no rule is denied for
// everyone, which fails closed if the graph and the matrix drift apart.
var transitionRules = map[edge]rule{
	// Intake: the applicant submits their own form, staff may submit on
	// their behalf (e.g. paper applications entered by operations).
	{models.StatusIncomplete, models.StatusPendingReview}: {roles: intakeStaff, selfAllowed: true},

	// Review decisions require organizational authority.
	{models.StatusPendingReview, models.StatusApproved}: {roles: reviewers},
	{models.StatusPendingReview, models.StatusDenied}:   {roles: reviewers},

	// Onboarding completion, including the guard field-training detour.
	{models.StatusApproved, models.StatusActive}:        {roles: onboarders},
	{models.StatusApproved, models.StatusFieldTraining}: {roles: onboarders},
	{models.StatusFieldTraining, models.StatusActive}:   {roles: onboarders},

	// Suspension and reinstatement.
	{models.StatusApproved, models.StatusSuspended}: {roles: onboarders},
	{models.StatusActive, models.StatusSuspended}:   {roles: onboarders},
	{models.StatusSuspended, models.StatusActive}:   {roles: reviewers},

	// Appeals: filed by the subject (or the owner on their behalf),
	// resolved only by override authority.
	{models.StatusApproved, models.StatusAppealed}: {roles: ownerOnly, selfAllowed: true},
	{models.StatusActive, models.StatusAppealed}:   {roles: ownerOnly, selfAllowed: true},
	{models.StatusAppealed, models.StatusApproved}: {roles: ownerOnly},
	{models.StatusAppealed, models.StatusDenied}:   {roles: ownerOnly},

	// Blocking any non-terminal state.
	{models.StatusIncomplete, models.StatusBlocked}:    {roles: reviewers},
	{models.StatusPendingReview, models.StatusBlocked}: {roles: reviewers},
	{models.StatusApproved, models.StatusBlocked}:      {roles: reviewers},
	{models.StatusActive, models.StatusBlocked}:        {roles: reviewers},
	{models.StatusSuspended, models.StatusBlocked}:     {roles: reviewers},
	{models.StatusAppealed, models.StatusBlocked}:      {roles: reviewers},
	{models.StatusFieldTraining, models.StatusBlocked}: {roles: reviewers},
}

// Resolve answers whether the actor may move the applicant to the requested
// status. The transition itself is assumed legal for the applicant's kind;
// graph checks belong to models.IsLegalTransition.
//
// The self rule overrides role claims: an actor operating on their own
// record is confined to submit and file-appeal no matter what role their
// token carries. This closes the self-approval hole.
func Resolve(actor models.Actor, applicant *models.Applicant, to models.Status) (Decision, error) {
	if _, err := models.ParseRole(string(actor.Role)); err != nil {
		return Decision{}, err
	}
	if _, err := models.ParseKind(string(applicant.Kind)); err != nil {
		return Decision{}, err
	}

	r, ok := transitionRules[edge{applicant.Status, to}]
	if !ok {
		return Decision{Reason: "transition is not permitted for any role"}, nil
	}

	if actor.IsSelf(applicant.ID.String()) {
		if r.selfAllowed {
			return Decision{Allowed: true}, nil
		}
		return Decision{Reason: "applicants cannot perform this transition on their own record"}, nil
	}

	for _, role := range r.roles {
		if actor.Role == role {
			return Decision{Allowed: true}, nil
		}
	}
	return Decision{Reason: "role " + string(actor.Role) + " cannot perform this transition"}, nil
}
