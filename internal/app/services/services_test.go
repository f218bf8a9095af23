package services

import (
	"sync"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
)

// Shared test principals

func patientPrincipal(id int64) auth.Principal {
	return auth.Principal{UserID: id, Role: models.RolePatient, IsActive: true}
}

func specialistPrincipal(id int64) auth.Principal {
	return auth.Principal{UserID: id, Role: models.RoleSpecialist, IsActive: true}
}

func adminPrincipal(id int64) auth.Principal {
	return auth.Principal{UserID: id, Role: models.RoleAdmin, IsActive: true}
}

// fakeNotifier records notifications and can be told to fail. done is closed
// signaled per call so tests can wait for the async fan-out.
type fakeNotifier struct {
	mu            sync.Mutex
	consultations []string
	contacts      [][]string
	fail          error
	done          chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 8)}
}

func (f *fakeNotifier) SendConsultationRequest(toEmail string, _ *models.Consultation, _ string) error {
	f.mu.Lock()
	f.consultations = append(f.consultations, toEmail)
	err := f.fail
	f.mu.Unlock()
	f.done <- struct{}{}
	return err
}

func (f *fakeNotifier) SendContactNotification(recipients []string, _ *models.ContactMessage) error {
	f.mu.Lock()
	f.contacts = append(f.contacts, recipients)
	err := f.fail
	f.mu.Unlock()
	f.done <- struct{}{}
	return err
}

func (f *fakeNotifier) consultationCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.consultations...)
}

func (f *fakeNotifier) contactCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.contacts...)
}
