package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/services"
	"github.com/eyecare/visionai/internal/middleware"
)

// UserController handles user directory operations
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// ListSpecialists lists the active specialists
// @Summary List active specialists
// @Description Returns the active specialists available for consultation booking.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SpecialistListResponse} "Specialists"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/specialists [get]
func (c *UserController) ListSpecialists(ctx *gin.Context) {
	resp, err := c.userService.ListSpecialists(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list specialists")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
