package dto

import "github.com/eyecare/visionai/internal/app/models"

// UserResponse represents basic user information
type UserResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Role           string  `json:"role"`
	IsActive       bool    `json:"isActive"`
	PhoneNumber    *string `json:"phoneNumber,omitempty"`
	Location       *string `json:"location,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// SpecialistResponse represents a specialist entry for the booking form
type SpecialistResponse struct {
	ID                  int64  `json:"id"`
	FullName            string `json:"fullName"`
	Specialization      string `json:"specialization,omitempty"`
	LicenseNumber       string `json:"licenseNumber,omitempty"`
	YearsOfExperience   int    `json:"yearsOfExperience,omitempty"`
	HospitalAffiliation string `json:"hospitalAffiliation,omitempty"`
	Bio                 string `json:"bio,omitempty"`
	IsVerified          bool   `json:"isVerified"`
}

// SpecialistListResponse represents the list of active specialists
type SpecialistListResponse struct {
	Specialists []SpecialistResponse `json:"specialists"`
}

// SpecialistProfileDetail represents the extended profile of a specialist
type SpecialistProfileDetail struct {
	Specialization      string `json:"specialization,omitempty"`
	LicenseNumber       string `json:"licenseNumber,omitempty"`
	YearsOfExperience   int    `json:"yearsOfExperience,omitempty"`
	HospitalAffiliation string `json:"hospitalAffiliation,omitempty"`
	Bio                 string `json:"bio,omitempty"`
	IsVerified          bool   `json:"isVerified"`
}

// ProfileResponse represents the authenticated user's own profile
type ProfileResponse struct {
	User              UserResponse             `json:"user"`
	SpecialistProfile *SpecialistProfileDetail `json:"specialistProfile,omitempty"`
}

// FromSpecialistProfile converts a models.SpecialistProfile to its detail view
func FromSpecialistProfile(profile *models.SpecialistProfile) *SpecialistProfileDetail {
	if profile == nil {
		return nil
	}
	return &SpecialistProfileDetail{
		Specialization:      profile.Specialization,
		LicenseNumber:       profile.LicenseNumber,
		YearsOfExperience:   profile.YearsOfExperience,
		HospitalAffiliation: profile.HospitalAffiliation,
		Bio:                 profile.Bio,
		IsVerified:          profile.IsVerified,
	}
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           string(user.RoleType),
		IsActive:       user.IsActive,
		PhoneNumber:    user.PhoneNumber,
		Location:       user.Location,
		Specialization: user.Specialization,
	}
}

// FromSpecialist converts a user and an optional profile to a SpecialistResponse
func FromSpecialist(user *models.User, profile *models.SpecialistProfile) SpecialistResponse {
	resp := SpecialistResponse{
		ID:       user.ID,
		FullName: user.FullName(),
	}
	if user.Specialization != nil {
		resp.Specialization = *user.Specialization
	}
	if profile != nil {
		if profile.Specialization != "" {
			resp.Specialization = profile.Specialization
		}
		resp.LicenseNumber = profile.LicenseNumber
		resp.YearsOfExperience = profile.YearsOfExperience
		resp.HospitalAffiliation = profile.HospitalAffiliation
		resp.Bio = profile.Bio
		resp.IsVerified = profile.IsVerified
	}
	return resp
}
