package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call it
// for every non-nil service error so the status taxonomy lives in one place.
func HandleAPIError(c *gin.Context, err error) {
	// Field-level validation failures carry the offending field.
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, validationErr.Message).
				WithField(validationErr.Field),
		})
		return
	}

	switch {
	// Not found. Out-of-scope resources surface here too, so a caller cannot
	// distinguish hidden from absent.
	case errors.Is(err, apperrors.ErrScanNotFound),
		errors.Is(err, apperrors.ErrReviewNotFound),
		errors.Is(err, apperrors.ErrConsultationNotFound),
		errors.Is(err, apperrors.ErrContactMessageNotFound),
		errors.Is(err, apperrors.ErrArticleNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})

	// Forbidden
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled"),
		})

	// Unauthorized
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token revoked"),
		})
	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})

	// Conflict
	case errors.Is(err, apperrors.ErrScanAlreadyReviewed):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Scan has already been reviewed"),
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, err.Error()),
		})
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already exists"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists"),
		})
	case errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, err.Error()),
		})

	// Bad request
	case errors.Is(err, apperrors.ErrNotASpecialist):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Selected user is not an active specialist").
				WithField("specialistId"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
