package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/services"
	"github.com/eyecare/visionai/internal/middleware"
	"github.com/eyecare/visionai/internal/pkg/helpers"
)

// ConsultationController handles consultation booking and its lifecycle
type ConsultationController struct {
	consultationService *services.ConsultationService
	logger              zerolog.Logger
}

// NewConsultationController creates a new ConsultationController
func NewConsultationController(consultationService *services.ConsultationService, logger zerolog.Logger) *ConsultationController {
	return &ConsultationController{
		consultationService: consultationService,
		logger:              logger,
	}
}

// CreateConsultation books a consultation
// @Summary Book a consultation
// @Description Books a consultation with an active specialist. The specialist is notified by email. Patients only.
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateConsultationRequest true "Consultation request"
// @Success 201 {object} dto.APIResponse{data=dto.ConsultationResponse} "Consultation created in pending status"
// @Failure 400 {object} dto.ErrorResponse "Target is not an active specialist or attached scan not found"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Only patients book consultations"
// @Router /consultations [post]
func (c *ConsultationController) CreateConsultation(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateConsultationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.consultationService.CreateConsultation(ctx.Request.Context(), p, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", p.UserID).Msg("Consultation booking rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// ListConsultations lists the consultations visible to the caller
// @Summary List consultations
// @Description Returns the consultations visible to the caller. Patients and specialists see ones they participate in, admins see all.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ConsultationListResponse} "Consultations"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /consultations [get]
func (c *ConsultationController) ListConsultations(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.consultationService.ListConsultations(ctx.Request.Context(), p, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetConsultation returns a single consultation
// @Summary Get a consultation
// @Description Returns a single consultation. Consultations outside the caller's scope read as absent.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consultation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConsultationResponse} "Consultation"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Consultation not found"
// @Router /consultations/{id} [get]
func (c *ConsultationController) GetConsultation(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.consultationService.GetConsultation(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// ApproveConsultation approves a pending consultation
// @Summary Approve a consultation
// @Description Moves a pending consultation to approved. Only the assigned specialist may approve.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consultation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConsultationResponse} "Approved consultation"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the assigned specialist"
// @Failure 404 {object} dto.ErrorResponse "Consultation not found"
// @Failure 409 {object} dto.ErrorResponse "Consultation is not pending"
// @Router /consultations/{id}/approve [post]
func (c *ConsultationController) ApproveConsultation(ctx *gin.Context) {
	c.transition(ctx, c.consultationService.ApproveConsultation)
}

// CompleteConsultation completes an approved consultation
// @Summary Complete a consultation
// @Description Moves an approved consultation to completed. Only the assigned specialist may complete.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consultation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConsultationResponse} "Completed consultation"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the assigned specialist"
// @Failure 404 {object} dto.ErrorResponse "Consultation not found"
// @Failure 409 {object} dto.ErrorResponse "Consultation is not approved"
// @Router /consultations/{id}/complete [post]
func (c *ConsultationController) CompleteConsultation(ctx *gin.Context) {
	c.transition(ctx, c.consultationService.CompleteConsultation)
}

// CancelConsultation cancels a pending or approved consultation
// @Summary Cancel a consultation
// @Description Cancels a pending or approved consultation. Either participant may cancel.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consultation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConsultationResponse} "Cancelled consultation"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a participant"
// @Failure 404 {object} dto.ErrorResponse "Consultation not found"
// @Failure 409 {object} dto.ErrorResponse "Consultation is already terminal"
// @Router /consultations/{id}/cancel [post]
func (c *ConsultationController) CancelConsultation(ctx *gin.Context) {
	c.transition(ctx, c.consultationService.CancelConsultation)
}

func (c *ConsultationController) transition(
	ctx *gin.Context,
	apply func(ctx context.Context, p auth.Principal, id int64) (*dto.ConsultationResponse, error),
) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := apply(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
