package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
)

// specialistDirectory is the part of the user repository the user service needs.
type specialistDirectory interface {
	ListActiveSpecialists(ctx context.Context) ([]models.User, error)
	GetSpecialistProfile(ctx context.Context, userID int64) (*models.SpecialistProfile, error)
}

// UserService serves user directory lookups
type UserService struct {
	users  specialistDirectory
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users specialistDirectory, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// ListSpecialists returns the active specialists for the booking form
func (s *UserService) ListSpecialists(ctx context.Context) (*dto.SpecialistListResponse, error) {
	users, err := s.users.ListActiveSpecialists(ctx)
	if err != nil {
		return nil, err
	}

	specialists := make([]dto.SpecialistResponse, 0, len(users))
	for i := range users {
		profile, err := s.users.GetSpecialistProfile(ctx, users[i].ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("userID", users[i].ID).Msg("Failed to load specialist profile")
		}
		specialists = append(specialists, dto.FromSpecialist(&users[i], profile))
	}

	return &dto.SpecialistListResponse{Specialists: specialists}, nil
}
