package models

import (
	dErrors "guardpost/pkg/domain-errors"
)

// Role is the organizational role attached to an authenticated actor.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleManagement Role = "management"
	RoleOperations Role = "operations"
	RoleSupervisor Role = "supervisor"
	RoleGuard      Role = "guard"
	RoleClient     Role = "client"

	// RoleApplicant is the unprivileged self-service principal: someone
	// acting on their own application before any account exists.
	RoleApplicant Role = "applicant"
)

// Actor is the authenticated identity invoking a transition. The identity
// layer upstream is trusted to have verified it.
type Actor struct {
	Subject string
	Role    Role
}

// ParseRole validates a role claim.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.known() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown role: "+s)
	}
	return r, nil
}

func (r Role) known() bool {
	switch r {
	case RoleOwner, RoleManagement, RoleOperations, RoleSupervisor,
		RoleGuard, RoleClient, RoleApplicant:
		return true
	}
	return false
}

// IsSelf reports whether the actor is the applicant acting on their own
// record.
func (a Actor) IsSelf(applicantID string) bool {
	return a.Subject != "" && a.Subject == applicantID
}
