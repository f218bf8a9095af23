package dto

import (
	"time"

	"github.com/eyecare/visionai/internal/app/models"
)

// CreateConsultationRequest represents the request to book a consultation
type CreateConsultationRequest struct {
	SpecialistID  int64      `json:"specialistId" binding:"required,min=1"`
	ScanID        *int64     `json:"scanId,omitempty"`
	Description   string     `json:"description" binding:"required"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// ConsultationResponse represents the response for a consultation
type ConsultationResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	UserName       string     `json:"userName,omitempty"`
	SpecialistID   int64      `json:"specialistId"`
	SpecialistName string     `json:"specialistName,omitempty"`
	ScanID         *int64     `json:"scanId,omitempty"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	ScheduledDate  *time.Time `json:"scheduledDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ConsultationListResponse represents a list of consultations with pagination
type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Pagination    PaginationInfo         `json:"pagination"`
}

// FromConsultation converts a models.Consultation to a ConsultationResponse
func FromConsultation(consultation *models.Consultation) ConsultationResponse {
	if consultation == nil {
		return ConsultationResponse{}
	}

	return ConsultationResponse{
		ID:            consultation.ID,
		UserID:        consultation.UserID,
		SpecialistID:  consultation.SpecialistID,
		ScanID:        consultation.ScanID,
		Description:   consultation.Description,
		Status:        string(consultation.Status),
		ScheduledDate: consultation.ScheduledDate,
		CreatedAt:     consultation.CreatedAt,
	}
}
