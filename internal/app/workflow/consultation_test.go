package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

func pendingConsultation() *models.Consultation {
	return &models.Consultation{ID: 1, UserID: 1, SpecialistID: 2, Status: models.ConsultationPending}
}

func TestConsultationHappyPath(t *testing.T) {
	c := pendingConsultation()

	require.NoError(t, ApproveConsultation(c))
	assert.Equal(t, models.ConsultationApproved, c.Status)

	require.NoError(t, CompleteConsultation(c))
	assert.Equal(t, models.ConsultationCompleted, c.Status)
}

func TestCompleteRequiresApproved(t *testing.T) {
	c := pendingConsultation()

	err := CompleteConsultation(c)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, models.ConsultationPending, c.Status, "failed transition must not change status")
}

func TestCancelFromPendingAndApproved(t *testing.T) {
	c := pendingConsultation()
	require.NoError(t, CancelConsultation(c))
	assert.Equal(t, models.ConsultationCancelled, c.Status)

	c = pendingConsultation()
	require.NoError(t, ApproveConsultation(c))
	require.NoError(t, CancelConsultation(c))
	assert.Equal(t, models.ConsultationCancelled, c.Status)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []models.ConsultationStatus{models.ConsultationCompleted, models.ConsultationCancelled} {
		c := pendingConsultation()
		c.Status = terminal

		assert.ErrorIs(t, ApproveConsultation(c), apperrors.ErrInvalidTransition)
		assert.ErrorIs(t, CompleteConsultation(c), apperrors.ErrInvalidTransition)
		assert.ErrorIs(t, CancelConsultation(c), apperrors.ErrInvalidTransition)
		assert.Equal(t, terminal, c.Status)
	}
}

func TestApproveTwiceFails(t *testing.T) {
	c := pendingConsultation()
	require.NoError(t, ApproveConsultation(c))
	assert.ErrorIs(t, ApproveConsultation(c), apperrors.ErrInvalidTransition)
}
