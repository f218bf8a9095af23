package dto

import "github.com/eyecare/visionai/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username       string          `json:"username" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=8"`
	FirstName      string          `json:"firstName" binding:"required"`
	LastName       string          `json:"lastName" binding:"required"`
	RoleType       models.RoleType `json:"roleType" binding:"required"`
	PhoneNumber    *string         `json:"phoneNumber,omitempty"`
	Location       *string         `json:"location,omitempty"`
	Specialization *string         `json:"specialization,omitempty"`
	LicenseNumber  *string         `json:"licenseNumber,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
