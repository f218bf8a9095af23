package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/services"
	"github.com/eyecare/visionai/internal/middleware"
	"github.com/eyecare/visionai/internal/pkg/helpers"
)

// ContactController handles the public contact form and the staff inbox
type ContactController struct {
	contactService *services.ContactService
	logger         zerolog.Logger
}

// NewContactController creates a new ContactController
func NewContactController(contactService *services.ContactService, logger zerolog.Logger) *ContactController {
	return &ContactController{
		contactService: contactService,
		logger:         logger,
	}
}

// CreateContactMessage accepts a public contact form submission
// @Summary Submit a contact message
// @Description Accepts a contact form submission. No authentication required. Staff are notified by email.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.CreateContactMessageRequest true "Contact message"
// @Success 201 {object} dto.APIResponse{data=dto.ContactMessageResponse} "Message received"
// @Failure 400 {object} dto.ErrorResponse "Field validation failure"
// @Router /contact-messages [post]
func (c *ContactController) CreateContactMessage(ctx *gin.Context) {
	var req dto.CreateContactMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.contactService.CreateContactMessage(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// ListContactMessages lists the staff inbox
// @Summary List contact messages
// @Description Returns the contact inbox for staff, optionally filtered by status. Non-staff callers get an empty list.
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(new, in_progress, resolved)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ContactMessageListResponse} "Messages"
// @Failure 400 {object} dto.ErrorResponse "Unknown status filter"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /contact-messages [get]
func (c *ContactController) ListContactMessages(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var status *models.ContactStatus
	if raw := ctx.Query("status"); raw != "" {
		parsed := models.ContactStatus(raw)
		if !parsed.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
				"status must be new, in_progress or resolved").WithField("status")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		status = &parsed
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.contactService.ListContactMessages(ctx.Request.Context(), p, status, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetContactMessage returns a single message from the staff inbox
// @Summary Get a contact message
// @Description Returns a single contact message. For non-staff callers the message reads as absent.
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactMessageResponse} "Message"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /contact-messages/{id} [get]
func (c *ContactController) GetContactMessage(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.contactService.GetContactMessage(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// AssignToMe claims a new message for the calling staff member
// @Summary Claim a contact message
// @Description Assigns a new message to the calling staff member and moves it to in_progress. A second claim loses.
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactMessageResponse} "Assigned message"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Only staff work the inbox"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Failure 409 {object} dto.ErrorResponse "Message is no longer new"
// @Router /contact-messages/{id}/assign_to_me [post]
func (c *ContactController) AssignToMe(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.contactService.AssignToMe(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// MarkResolved resolves a message
// @Summary Resolve a contact message
// @Description Moves a new or in_progress message to resolved. Resolved is terminal.
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactMessageResponse} "Resolved message"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Only staff work the inbox"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Failure 409 {object} dto.ErrorResponse "Message is already resolved"
// @Router /contact-messages/{id}/mark_resolved [post]
func (c *ContactController) MarkResolved(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.contactService.MarkResolved(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
