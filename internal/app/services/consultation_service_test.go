package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/repositories"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// fakeConsultationStore keeps consultations in memory with compare-and-set
// status updates, like the real repository.
type fakeConsultationStore struct {
	consultations map[int64]*repositories.ConsultationRecord
	nextID        int64
}

func newFakeConsultationStore() *fakeConsultationStore {
	return &fakeConsultationStore{
		consultations: map[int64]*repositories.ConsultationRecord{},
		nextID:        1,
	}
}

func (f *fakeConsultationStore) Create(_ context.Context, c *models.Consultation) error {
	c.ID = f.nextID
	f.nextID++
	c.Status = models.ConsultationPending
	f.consultations[c.ID] = &repositories.ConsultationRecord{Consultation: *c}
	return nil
}

func (f *fakeConsultationStore) visible(p auth.Principal, rec *repositories.ConsultationRecord) bool {
	switch auth.ConsultationScope(p) {
	case auth.ScopeAll:
		return true
	case auth.ScopeMine:
		return rec.IsParticipant(p.UserID)
	default:
		return false
	}
}

func (f *fakeConsultationStore) List(_ context.Context, p auth.Principal, _, _ int) ([]repositories.ConsultationRecord, int64, error) {
	var out []repositories.ConsultationRecord
	for _, rec := range f.consultations {
		if f.visible(p, rec) {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeConsultationStore) GetByID(_ context.Context, p auth.Principal, id int64) (*repositories.ConsultationRecord, error) {
	rec, ok := f.consultations[id]
	if !ok || !f.visible(p, rec) {
		return nil, apperrors.ErrConsultationNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeConsultationStore) UpdateStatus(_ context.Context, id int64, from, to models.ConsultationStatus) error {
	rec, ok := f.consultations[id]
	if !ok {
		return apperrors.ErrConsultationNotFound
	}
	if rec.Status != from {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition, "consultation status changed concurrently")
	}
	rec.Status = to
	return nil
}

// fakeUserDirectory serves GetByID lookups from a fixed set of users.
type fakeUserDirectory struct {
	users map[int64]*models.User
}

func (f *fakeUserDirectory) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func testUsers() *fakeUserDirectory {
	return &fakeUserDirectory{users: map[int64]*models.User{
		1: {ID: 1, Username: "pat", FirstName: "Pat", LastName: "Doe", Email: "pat@example.com", RoleType: models.RolePatient, IsActive: true},
		2: {ID: 2, Username: "drsmith", FirstName: "Ann", LastName: "Smith", Email: "drsmith@example.com", RoleType: models.RoleSpecialist, IsActive: true},
		3: {ID: 3, Username: "admin", FirstName: "Sys", LastName: "Admin", Email: "admin@example.com", RoleType: models.RoleAdmin, IsActive: true},
	}}
}

func newConsultationService(store *fakeConsultationStore, notifier *fakeNotifier) *ConsultationService {
	return NewConsultationService(store, testUsers(), newFakeScanStore(), notifier, zerolog.Nop())
}

func createRequest() *dto.CreateConsultationRequest {
	return &dto.CreateConsultationRequest{
		SpecialistID: 2,
		Description:  "Recurring eye dryness in the evenings",
	}
}

func TestCreateConsultation(t *testing.T) {
	store := newFakeConsultationStore()
	notifier := newFakeNotifier()
	svc := newConsultationService(store, notifier)

	resp, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, int64(2), resp.SpecialistID)
	assert.Equal(t, "Ann Smith", resp.SpecialistName)

	select {
	case <-notifier.done:
	case <-time.After(time.Second):
		t.Fatal("specialist notification never sent")
	}
	assert.Equal(t, []string{"drsmith@example.com"}, notifier.consultationCalls())
}

func TestCreateConsultationRequiresSpecialistTarget(t *testing.T) {
	svc := newConsultationService(newFakeConsultationStore(), newFakeNotifier())

	// booking against another patient
	req := createRequest()
	req.SpecialistID = 1
	_, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), req)
	assert.ErrorIs(t, err, apperrors.ErrNotASpecialist)

	// booking against a missing user
	req.SpecialistID = 99
	_, err = svc.CreateConsultation(context.Background(), patientPrincipal(1), req)
	assert.ErrorIs(t, err, apperrors.ErrNotASpecialist)
}

func TestCreateConsultationNotifierFailureIsolated(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.fail = errors.New("smtp down")
	svc := newConsultationService(newFakeConsultationStore(), notifier)

	resp, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err, "notification failure must not fail the booking")
	assert.Equal(t, "pending", resp.Status)

	select {
	case <-notifier.done:
	case <-time.After(time.Second):
		t.Fatal("notification attempt never made")
	}
}

func TestConsultationLifecycle(t *testing.T) {
	store := newFakeConsultationStore()
	svc := newConsultationService(store, newFakeNotifier())

	created, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	approved, err := svc.ApproveConsultation(context.Background(), specialistPrincipal(2), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	completed, err := svc.CompleteConsultation(context.Background(), specialistPrincipal(2), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	// terminal: no further transitions
	_, err = svc.CancelConsultation(context.Background(), specialistPrincipal(2), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCompleteOnPendingFails(t *testing.T) {
	store := newFakeConsultationStore()
	svc := newConsultationService(store, newFakeNotifier())

	created, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	_, err = svc.CompleteConsultation(context.Background(), specialistPrincipal(2), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestApproveByPatientForbidden(t *testing.T) {
	store := newFakeConsultationStore()
	svc := newConsultationService(store, newFakeNotifier())

	created, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	_, err = svc.ApproveConsultation(context.Background(), patientPrincipal(1), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCancelByEitherParticipant(t *testing.T) {
	store := newFakeConsultationStore()
	svc := newConsultationService(store, newFakeNotifier())

	created, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	cancelled, err := svc.CancelConsultation(context.Background(), patientPrincipal(1), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestConsultationHiddenFromNonParticipants(t *testing.T) {
	store := newFakeConsultationStore()
	svc := newConsultationService(store, newFakeNotifier())

	created, err := svc.CreateConsultation(context.Background(), patientPrincipal(1), createRequest())
	require.NoError(t, err)

	// unrelated users cannot even see it
	_, err = svc.GetConsultation(context.Background(), patientPrincipal(9), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrConsultationNotFound)

	_, err = svc.ApproveConsultation(context.Background(), specialistPrincipal(8), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrConsultationNotFound)

	// admins see everything but may not drive transitions
	got, err := svc.GetConsultation(context.Background(), adminPrincipal(3), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.ApproveConsultation(context.Background(), adminPrincipal(3), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
