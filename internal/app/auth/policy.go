package auth

import (
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// Principal is the authenticated actor a request runs as. It is built by the
// auth middleware from token claims and passed down to the policy functions.
type Principal struct {
	UserID   int64
	Role     models.RoleType
	IsActive bool
}

// IsStaff reports whether the principal may handle contact messages.
func (p Principal) IsStaff() bool {
	return p.Role.IsStaff()
}

// ListScope tells a repository how wide a list or lookup query may reach for
// the principal. Records outside the scope are absent, not forbidden.
type ListScope int

const (
	// ScopeNone yields no records at all.
	ScopeNone ListScope = iota
	// ScopeMine yields records owned by or assigned to the principal.
	ScopeMine
	// ScopeAll yields every record.
	ScopeAll
)

// The role switches below are deliberately exhaustive over the closed role
// enum. Adding a role fails every switch into the deny arm until each rule is
// revisited.

// CanCreateScan allows scan uploads for patients only.
func CanCreateScan(p Principal) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	switch p.Role {
	case models.RolePatient:
		return nil
	case models.RoleSpecialist, models.RoleAdmin:
		return apperrors.NewForbiddenError("only patients can upload eye scans")
	default:
		return apperrors.ErrPermissionDenied
	}
}

// CanReviewScan allows review creation for specialists only.
func CanReviewScan(p Principal) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	switch p.Role {
	case models.RoleSpecialist:
		return nil
	case models.RolePatient, models.RoleAdmin:
		return apperrors.NewForbiddenError("only specialists can review eye scans")
	default:
		return apperrors.ErrPermissionDenied
	}
}

// ScanScope returns how widely the principal may read scans.
func ScanScope(p Principal) ListScope {
	if !p.IsActive {
		return ScopeNone
	}
	switch p.Role {
	case models.RolePatient:
		return ScopeMine
	case models.RoleSpecialist, models.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// ReviewScope returns how widely the principal may read scan reviews.
// ScopeMine means reviews the specialist authored, or reviews of the
// patient's own scans.
func ReviewScope(p Principal) ListScope {
	if !p.IsActive {
		return ScopeNone
	}
	switch p.Role {
	case models.RolePatient, models.RoleSpecialist:
		return ScopeMine
	case models.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// ConsultationScope returns how widely the principal may read consultations.
// ScopeMine means consultations the principal participates in.
func ConsultationScope(p Principal) ListScope {
	if !p.IsActive {
		return ScopeNone
	}
	switch p.Role {
	case models.RolePatient, models.RoleSpecialist:
		return ScopeMine
	case models.RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// ContactMessageScope returns how widely the principal may read the contact
// inbox. Non-staff see an empty inbox rather than an error.
func ContactMessageScope(p Principal) ListScope {
	if !p.IsActive {
		return ScopeNone
	}
	switch p.Role {
	case models.RoleAdmin, models.RoleSpecialist:
		return ScopeAll
	case models.RolePatient:
		return ScopeNone
	default:
		return ScopeNone
	}
}

// CanCreateConsultation allows consultation booking for patients only.
func CanCreateConsultation(p Principal) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	switch p.Role {
	case models.RolePatient:
		return nil
	case models.RoleSpecialist, models.RoleAdmin:
		return apperrors.NewForbiddenError("only patients can request consultations")
	default:
		return apperrors.ErrPermissionDenied
	}
}

// CanApproveConsultation allows approve for the assigned specialist only.
// A consultation outside the principal's scope reads as absent.
func CanApproveConsultation(p Principal, c *models.Consultation) error {
	return assignedSpecialistOnly(p, c)
}

// CanCompleteConsultation allows complete for the assigned specialist only.
func CanCompleteConsultation(p Principal, c *models.Consultation) error {
	return assignedSpecialistOnly(p, c)
}

// CanCancelConsultation allows cancel for either participant.
func CanCancelConsultation(p Principal, c *models.Consultation) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	if ConsultationScope(p) == ScopeMine && !c.IsParticipant(p.UserID) {
		return apperrors.ErrConsultationNotFound
	}
	if !c.IsParticipant(p.UserID) {
		return apperrors.NewForbiddenError("only the patient or the assigned specialist can cancel")
	}
	return nil
}

func assignedSpecialistOnly(p Principal, c *models.Consultation) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	if ConsultationScope(p) == ScopeMine && !c.IsParticipant(p.UserID) {
		return apperrors.ErrConsultationNotFound
	}
	switch p.Role {
	case models.RoleSpecialist:
		if c.SpecialistID != p.UserID {
			return apperrors.NewForbiddenError("only the assigned specialist can update this consultation")
		}
		return nil
	case models.RolePatient, models.RoleAdmin:
		return apperrors.NewForbiddenError("only the assigned specialist can update this consultation")
	default:
		return apperrors.ErrPermissionDenied
	}
}

// CanManageContactMessages allows inbox actions for staff only.
func CanManageContactMessages(p Principal) error {
	if !p.IsActive {
		return apperrors.ErrAccountDisabled
	}
	switch p.Role {
	case models.RoleAdmin, models.RoleSpecialist:
		return nil
	case models.RolePatient:
		return apperrors.NewForbiddenError("only staff can manage contact messages")
	default:
		return apperrors.ErrPermissionDenied
	}
}
