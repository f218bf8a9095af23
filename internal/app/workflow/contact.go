package workflow

import (
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// AssignContactMessage moves a new message to in_progress and records the
// staff member it is assigned to. Assigning an already in_progress or
// resolved message is rejected.
func AssignContactMessage(m *models.ContactMessage, staffUserID int64) error {
	if m.Status != models.ContactNew {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"cannot assign a contact message in status "+string(m.Status))
	}
	m.Status = models.ContactInProgress
	m.AssignedTo = &staffUserID
	return nil
}

// ResolveContactMessage moves a new or in_progress message to resolved.
// resolved is terminal.
func ResolveContactMessage(m *models.ContactMessage) error {
	switch m.Status {
	case models.ContactNew, models.ContactInProgress:
		m.Status = models.ContactResolved
		return nil
	default:
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"cannot resolve a contact message in status "+string(m.Status))
	}
}
