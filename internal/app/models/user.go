package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             int64     `json:"id" db:"id" example:"1"`                              // Unique identifier for the user
	Username       string    `json:"username" db:"username" example:"jdoe"`               // Login name, unique
	Email          string    `json:"email" db:"email" example:"jdoe@example.com"`         // User's email address, unique
	Password       string    `json:"-" db:"password"`                                     // User's hashed password (excluded from JSON)
	FirstName      string    `json:"firstName" db:"first_name" example:"John"`            // User's first name
	LastName       string    `json:"lastName" db:"last_name" example:"Doe"`               // User's last name
	RoleType       RoleType  `json:"roleType" db:"role_type" example:"PATIENT"`           // User's role (PATIENT, SPECIALIST or ADMIN)
	IsActive       bool      `json:"isActive" db:"is_active" example:"true"`              // Whether the user account is active
	PhoneNumber    *string   `json:"phoneNumber,omitempty" db:"phone_number"`             // Contact number (nullable)
	Location       *string   `json:"location,omitempty" db:"location"`                    // Free-form location (nullable)
	Specialization *string   `json:"specialization,omitempty" db:"specialization"`        // Medical specialization (specialists only)
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`                           // Timestamp when the user was created
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`                           // Timestamp when the user was last updated
}

// FullName returns "First Last", falling back to the username when both are empty.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SpecialistProfile defines the extended profile stored for specialists
type SpecialistProfile struct {
	ID                  int64  `json:"id" db:"id"`
	UserID              int64  `json:"userId" db:"user_id"`
	Specialization      string `json:"specialization" db:"specialization"`
	LicenseNumber       string `json:"licenseNumber" db:"license_number"`
	YearsOfExperience   int    `json:"yearsOfExperience" db:"years_of_experience"`
	HospitalAffiliation string `json:"hospitalAffiliation,omitempty" db:"hospital_affiliation"`
	Bio                 string `json:"bio,omitempty" db:"bio"`
	IsVerified          bool   `json:"isVerified" db:"is_verified"`
	User                *User  `json:"user,omitempty"` // Relation, no db tag
}
