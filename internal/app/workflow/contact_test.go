package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

func newMessage() *models.ContactMessage {
	return &models.ContactMessage{ID: 1, Status: models.ContactNew}
}

func TestAssignContactMessage(t *testing.T) {
	m := newMessage()

	require.NoError(t, AssignContactMessage(m, 7))
	assert.Equal(t, models.ContactInProgress, m.Status)
	require.NotNil(t, m.AssignedTo)
	assert.Equal(t, int64(7), *m.AssignedTo)
}

func TestAssignTwiceFails(t *testing.T) {
	m := newMessage()
	require.NoError(t, AssignContactMessage(m, 7))

	err := AssignContactMessage(m, 8)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, int64(7), *m.AssignedTo, "second assign must not steal the message")
}

func TestResolveFromNewAndInProgress(t *testing.T) {
	m := newMessage()
	require.NoError(t, ResolveContactMessage(m))
	assert.Equal(t, models.ContactResolved, m.Status)

	m = newMessage()
	require.NoError(t, AssignContactMessage(m, 7))
	require.NoError(t, ResolveContactMessage(m))
	assert.Equal(t, models.ContactResolved, m.Status)
}

func TestResolvedIsTerminal(t *testing.T) {
	m := newMessage()
	require.NoError(t, ResolveContactMessage(m))

	assert.ErrorIs(t, ResolveContactMessage(m), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, AssignContactMessage(m, 7), apperrors.ErrInvalidTransition)
}
