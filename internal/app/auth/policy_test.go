package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

func patient(id int64) Principal {
	return Principal{UserID: id, Role: models.RolePatient, IsActive: true}
}

func specialist(id int64) Principal {
	return Principal{UserID: id, Role: models.RoleSpecialist, IsActive: true}
}

func admin(id int64) Principal {
	return Principal{UserID: id, Role: models.RoleAdmin, IsActive: true}
}

func TestCanCreateScan(t *testing.T) {
	assert.NoError(t, CanCreateScan(patient(1)))
	assert.ErrorIs(t, CanCreateScan(specialist(2)), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, CanCreateScan(admin(3)), apperrors.ErrPermissionDenied)

	inactive := patient(1)
	inactive.IsActive = false
	assert.ErrorIs(t, CanCreateScan(inactive), apperrors.ErrAccountDisabled)
}

func TestCanReviewScan(t *testing.T) {
	assert.NoError(t, CanReviewScan(specialist(2)))
	assert.ErrorIs(t, CanReviewScan(patient(1)), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, CanReviewScan(admin(3)), apperrors.ErrPermissionDenied)
}

func TestScanScope(t *testing.T) {
	assert.Equal(t, ScopeMine, ScanScope(patient(1)))
	assert.Equal(t, ScopeAll, ScanScope(specialist(2)))
	assert.Equal(t, ScopeAll, ScanScope(admin(3)))

	unknown := Principal{UserID: 4, Role: models.RoleType("INTERN"), IsActive: true}
	assert.Equal(t, ScopeNone, ScanScope(unknown))
}

func TestContactMessageScopeNonStaffSeesNothing(t *testing.T) {
	assert.Equal(t, ScopeNone, ContactMessageScope(patient(1)))
	assert.Equal(t, ScopeAll, ContactMessageScope(specialist(2)))
	assert.Equal(t, ScopeAll, ContactMessageScope(admin(3)))
}

func TestConsultationActionGating(t *testing.T) {
	c := &models.Consultation{
		ID:           10,
		UserID:       1,
		SpecialistID: 2,
		Status:       models.ConsultationPending,
	}

	// assigned specialist may approve and complete
	assert.NoError(t, CanApproveConsultation(specialist(2), c))
	assert.NoError(t, CanCompleteConsultation(specialist(2), c))

	// the patient may not approve, even as a participant
	err := CanApproveConsultation(patient(1), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// admins are not participants and may not drive transitions
	assert.ErrorIs(t, CanApproveConsultation(admin(3), c), apperrors.ErrPermissionDenied)
}

func TestConsultationHiddenFromOutsiders(t *testing.T) {
	c := &models.Consultation{ID: 10, UserID: 1, SpecialistID: 2}

	// a different specialist is not a participant, so the record reads absent
	err := CanApproveConsultation(specialist(9), c)
	assert.ErrorIs(t, err, apperrors.ErrConsultationNotFound)
	assert.False(t, errors.Is(err, apperrors.ErrPermissionDenied))

	err = CanCancelConsultation(patient(8), c)
	assert.ErrorIs(t, err, apperrors.ErrConsultationNotFound)
}

func TestCanCancelConsultationParticipants(t *testing.T) {
	c := &models.Consultation{ID: 10, UserID: 1, SpecialistID: 2}

	assert.NoError(t, CanCancelConsultation(patient(1), c))
	assert.NoError(t, CanCancelConsultation(specialist(2), c))
	assert.ErrorIs(t, CanCancelConsultation(admin(3), c), apperrors.ErrPermissionDenied)
}

func TestCanManageContactMessages(t *testing.T) {
	assert.NoError(t, CanManageContactMessages(admin(3)))
	assert.NoError(t, CanManageContactMessages(specialist(2)))
	assert.ErrorIs(t, CanManageContactMessages(patient(1)), apperrors.ErrPermissionDenied)
}
