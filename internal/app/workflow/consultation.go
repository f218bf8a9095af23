// Package workflow holds the pure status machines for consultations and
// contact messages. Who may drive a transition is decided by the auth policy;
// this package only answers whether the transition itself is legal.
package workflow

import (
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// consultationTransitions maps each status to the statuses it may move to.
// completed and cancelled are terminal.
var consultationTransitions = map[models.ConsultationStatus][]models.ConsultationStatus{
	models.ConsultationPending:   {models.ConsultationApproved, models.ConsultationCancelled},
	models.ConsultationApproved:  {models.ConsultationCompleted, models.ConsultationCancelled},
	models.ConsultationCompleted: {},
	models.ConsultationCancelled: {},
}

// CanTransitionConsultation reports whether a consultation may move from one
// status to another.
func CanTransitionConsultation(from, to models.ConsultationStatus) bool {
	for _, next := range consultationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApproveConsultation moves pending to approved.
func ApproveConsultation(c *models.Consultation) error {
	return transitionConsultation(c, models.ConsultationApproved)
}

// CompleteConsultation moves approved to completed. A pending consultation
// cannot be completed directly.
func CompleteConsultation(c *models.Consultation) error {
	return transitionConsultation(c, models.ConsultationCompleted)
}

// CancelConsultation moves pending or approved to cancelled.
func CancelConsultation(c *models.Consultation) error {
	return transitionConsultation(c, models.ConsultationCancelled)
}

func transitionConsultation(c *models.Consultation, to models.ConsultationStatus) error {
	if !CanTransitionConsultation(c.Status, to) {
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"cannot move consultation from "+string(c.Status)+" to "+string(to))
	}
	c.Status = to
	return nil
}
