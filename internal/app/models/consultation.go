package models

import (
	"time"
)

// Consultation defines the consultation model based on the 'consultations'
// table. Status only moves through the transitions in the workflow package.
type Consultation struct {
	ID            int64              `json:"id" db:"id"`
	UserID        int64              `json:"userId" db:"user_id"`
	SpecialistID  int64              `json:"specialistId" db:"specialist_id"`
	ScanID        *int64             `json:"scanId,omitempty" db:"scan_id"`
	Description   string             `json:"description" db:"description"`
	Status        ConsultationStatus `json:"status" db:"status" example:"pending"`
	ScheduledDate *time.Time         `json:"scheduledDate,omitempty" db:"scheduled_date"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
}

// IsParticipant reports whether the given user is the patient or the
// assigned specialist of this consultation.
func (c *Consultation) IsParticipant(userID int64) bool {
	return c.UserID == userID || c.SpecialistID == userID
}
