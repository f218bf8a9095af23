package models

import (
	"time"
)

// ContactMessage defines the public inbox model based on the
// 'contact_messages' table. Creation is anonymous; handling is staff-only.
type ContactMessage struct {
	ID         int64         `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	Email      string        `json:"email" db:"email"`
	Subject    string        `json:"subject" db:"subject"`
	Message    string        `json:"message" db:"message"`
	Status     ContactStatus `json:"status" db:"status" example:"new"`
	AssignedTo *int64        `json:"assignedTo,omitempty" db:"assigned_to"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at"`
}
