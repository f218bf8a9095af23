package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// fakeContactStore keeps messages in memory with the same compare-and-set
// transition semantics as the real repository.
type fakeContactStore struct {
	messages map[int64]*models.ContactMessage
	nextID   int64
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{messages: map[int64]*models.ContactMessage{}, nextID: 1}
}

func (f *fakeContactStore) Create(_ context.Context, m *models.ContactMessage) error {
	m.ID = f.nextID
	f.nextID++
	m.Status = models.ContactNew
	f.messages[m.ID] = m
	return nil
}

func (f *fakeContactStore) List(_ context.Context, status *models.ContactStatus, _, _ int) ([]models.ContactMessage, int64, error) {
	var out []models.ContactMessage
	for _, m := range f.messages {
		if status == nil || m.Status == *status {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeContactStore) GetByID(_ context.Context, id int64) (*models.ContactMessage, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrContactMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeContactStore) Assign(_ context.Context, id, staffUserID int64) error {
	m, ok := f.messages[id]
	if !ok {
		return apperrors.ErrContactMessageNotFound
	}
	if m.Status != models.ContactNew {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition, "message is no longer new")
	}
	m.Status = models.ContactInProgress
	m.AssignedTo = &staffUserID
	return nil
}

func (f *fakeContactStore) Resolve(_ context.Context, id int64) error {
	m, ok := f.messages[id]
	if !ok {
		return apperrors.ErrContactMessageNotFound
	}
	if m.Status == models.ContactResolved {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition, "message is already resolved")
	}
	m.Status = models.ContactResolved
	return nil
}

// fakeStaffDirectory returns a fixed staff email list.
type fakeStaffDirectory struct {
	emails []string
}

func (f *fakeStaffDirectory) ListStaffEmails(_ context.Context) ([]string, error) {
	return f.emails, nil
}

func newContactService(store *fakeContactStore, notifier *fakeNotifier) *ContactService {
	staff := &fakeStaffDirectory{emails: []string{"drsmith@example.com", "admin@example.com"}}
	return NewContactService(store, staff, notifier, []string{"inbox@example.com", "admin@example.com"}, zerolog.Nop())
}

func contactRequest() *dto.CreateContactMessageRequest {
	return &dto.CreateContactMessageRequest{
		Name:    "Jane Roe",
		Email:   "jane@example.com",
		Subject: "Appointment question",
		Message: "I would like to know how to prepare for my scan.",
	}
}

func TestCreateContactMessage(t *testing.T) {
	store := newFakeContactStore()
	notifier := newFakeNotifier()
	svc := newContactService(store, notifier)

	resp, err := svc.CreateContactMessage(context.Background(), contactRequest())
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Status)
	assert.Nil(t, resp.AssignedTo)

	select {
	case <-notifier.done:
	case <-time.After(time.Second):
		t.Fatal("staff notification never sent")
	}

	calls := notifier.contactCalls()
	require.Len(t, calls, 1)
	// fan-out is the configured list joined with staff accounts, de-duplicated
	assert.ElementsMatch(t, []string{"inbox@example.com", "admin@example.com", "drsmith@example.com"}, calls[0])
}

func TestContactSubjectLengthBoundary(t *testing.T) {
	svc := newContactService(newFakeContactStore(), newFakeNotifier())

	req := contactRequest()
	req.Subject = "Hey!"
	_, err := svc.CreateContactMessage(context.Background(), req)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "subject", vErr.Field)

	// five characters passes
	req.Subject = "Hey!!"
	_, err = svc.CreateContactMessage(context.Background(), req)
	assert.NoError(t, err)

	// whitespace padding does not count
	req.Subject = "  Hi    "
	_, err = svc.CreateContactMessage(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "subject", vErr.Field)
}

func TestContactMessageLengthValidation(t *testing.T) {
	svc := newContactService(newFakeContactStore(), newFakeNotifier())

	req := contactRequest()
	req.Message = "too short"
	_, err := svc.CreateContactMessage(context.Background(), req)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "message", vErr.Field)
}

func TestContactLifecycle(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store, newFakeNotifier())

	created, err := svc.CreateContactMessage(context.Background(), contactRequest())
	require.NoError(t, err)

	assigned, err := svc.AssignToMe(context.Background(), specialistPrincipal(2), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, int64(2), *assigned.AssignedTo)

	// a second claim loses
	_, err = svc.AssignToMe(context.Background(), adminPrincipal(3), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	resolved, err := svc.MarkResolved(context.Background(), specialistPrincipal(2), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", resolved.Status)

	// resolved is terminal
	_, err = svc.MarkResolved(context.Background(), specialistPrincipal(2), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestResolveWithoutAssign(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store, newFakeNotifier())

	created, err := svc.CreateContactMessage(context.Background(), contactRequest())
	require.NoError(t, err)

	resolved, err := svc.MarkResolved(context.Background(), adminPrincipal(3), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", resolved.Status)
}

func TestContactInboxStaffOnly(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store, newFakeNotifier())

	created, err := svc.CreateContactMessage(context.Background(), contactRequest())
	require.NoError(t, err)

	// patients get an empty inbox, not an error
	list, err := svc.ListContactMessages(context.Background(), patientPrincipal(1), nil, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Messages)

	// and single messages read as absent
	_, err = svc.GetContactMessage(context.Background(), patientPrincipal(1), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrContactMessageNotFound)

	// patients cannot work the inbox either
	_, err = svc.AssignToMe(context.Background(), patientPrincipal(1), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// staff see the message
	staffList, err := svc.ListContactMessages(context.Background(), adminPrincipal(3), nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, staffList.Messages, 1)
}
