package dto

import (
	"time"

	"github.com/eyecare/visionai/internal/app/models"
)

// CreateContactMessageRequest represents the public contact form submission
type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactMessageResponse represents the response for a contact message
type ContactMessageResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	AssignedTo *int64    `json:"assignedTo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ContactMessageListResponse represents a list of contact messages with pagination
type ContactMessageListResponse struct {
	Messages   []ContactMessageResponse `json:"messages"`
	Pagination PaginationInfo           `json:"pagination"`
}

// FromContactMessage converts a models.ContactMessage to a ContactMessageResponse
func FromContactMessage(msg *models.ContactMessage) ContactMessageResponse {
	if msg == nil {
		return ContactMessageResponse{}
	}

	return ContactMessageResponse{
		ID:         msg.ID,
		Name:       msg.Name,
		Email:      msg.Email,
		Subject:    msg.Subject,
		Message:    msg.Message,
		Status:     string(msg.Status),
		AssignedTo: msg.AssignedTo,
		CreatedAt:  msg.CreatedAt,
		UpdatedAt:  msg.UpdatedAt,
	}
}
