package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/auth"
	"github.com/eyecare/visionai/internal/pkg/validation"
)

// userStore is the part of the user repository the auth service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSpecialistProfile(ctx context.Context, profile *models.SpecialistProfile) error
	GetSpecialistProfile(ctx context.Context, userID int64) (*models.SpecialistProfile, error)
}

// tokenStore is the part of the token repository the auth service needs.
type tokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// AuthService handles registration, login and token refresh
type AuthService struct {
	userStore  userStore
	tokenStore tokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore userStore, tokenStore tokenStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *AuthService) validateRegisterRequest(req *dto.RegisterRequest) error {
	if !validation.ValidUsername(req.Username) {
		return apperrors.NewValidationError("username",
			"username must be 3-30 characters of letters, digits, dots, dashes or underscores")
	}
	if !validation.ValidEmail(req.Email) {
		return apperrors.NewValidationError("email", "invalid email format")
	}
	if len(req.Password) < validation.PasswordMinLength {
		return apperrors.NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return apperrors.NewValidationError("firstName", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return apperrors.NewValidationError("lastName", "last name is required")
	}
	// Admin accounts are provisioned, never self-registered.
	if req.RoleType != models.RolePatient && req.RoleType != models.RoleSpecialist {
		return apperrors.NewValidationError("roleType", "role must be PATIENT or SPECIALIST")
	}
	return nil
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		Password:       hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		RoleType:       req.RoleType,
		IsActive:       true,
		PhoneNumber:    req.PhoneNumber,
		Location:       req.Location,
		Specialization: req.Specialization,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	if user.RoleType == models.RoleSpecialist {
		profile := &models.SpecialistProfile{UserID: user.ID}
		if req.Specialization != nil {
			profile.Specialization = *req.Specialization
		}
		if req.LicenseNumber != nil {
			profile.LicenseNumber = *req.LicenseNumber
		}
		if err := s.userStore.CreateSpecialistProfile(ctx, profile); err != nil {
			// The account itself is usable without the extended profile.
			s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to create specialist profile")
		}
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User registered")

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: *token, User: dto.FromUser(user)}, nil
}

// Login authenticates a user by username and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		// Same answer for unknown username and wrong password.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &dto.AuthResponse{Token: *token, User: dto.FromUser(user)}, nil
}

// RefreshToken rotates a refresh token and issues a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, err := s.tokenStore.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// Rotation: the presented token is single-use.
	if err := s.tokenStore.RevokeToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke rotated refresh token")
	}

	return s.generateTokenResponse(ctx, user)
}

// GetProfile returns the profile of the authenticated user, including the
// extended specialist profile when there is one.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, *models.SpecialistProfile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	resp := dto.FromUser(user)

	if user.RoleType == models.RoleSpecialist {
		profile, err := s.userStore.GetSpecialistProfile(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to load specialist profile")
			return &resp, nil, nil
		}
		return &resp, profile, nil
	}

	return &resp, nil, nil
}

func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	expiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenStore.CreateToken(ctx, refreshToken, user.ID, expiry); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
