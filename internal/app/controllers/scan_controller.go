package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/services"
	"github.com/eyecare/visionai/internal/middleware"
	"github.com/eyecare/visionai/internal/pkg/helpers"
)

// ScanController handles eye scan uploads and specialist reviews
type ScanController struct {
	scanService *services.ScanService
	logger      zerolog.Logger
}

// NewScanController creates a new ScanController
func NewScanController(scanService *services.ScanService, logger zerolog.Logger) *ScanController {
	return &ScanController{
		scanService: scanService,
		logger:      logger,
	}
}

// CreateScan uploads a new eye scan
// @Summary Upload an eye scan
// @Description Uploads an eye scan image. The image is classified immediately and the result stored with the scan. Patients only.
// @Tags scans
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Scan image (.jpg, .jpeg or .png)"
// @Success 201 {object} dto.APIResponse{data=dto.ScanResponse} "Scan created with classification result"
// @Failure 400 {object} dto.ErrorResponse "Missing image or unsupported file type"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Only patients upload scans"
// @Router /scans [post]
func (c *ScanController) CreateScan(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Scan image is required").
			WithField("image")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.scanService.CreateScan(ctx.Request.Context(), p, fileHeader)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", p.UserID).Msg("Scan upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// ListScans lists the scans visible to the caller
// @Summary List eye scans
// @Description Returns the scans visible to the caller. Patients see their own, specialists and admins see all.
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ScanListResponse} "Scans"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /scans [get]
func (c *ScanController) ListScans(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.scanService.ListScans(ctx.Request.Context(), p, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetScan returns a single scan
// @Summary Get an eye scan
// @Description Returns a single scan with its review embedded once reviewed. Scans outside the caller's scope read as absent.
// @Tags scans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scan ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScanResponse} "Scan"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Scan not found"
// @Router /scans/{id} [get]
func (c *ScanController) GetScan(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.scanService.GetScan(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// CreateReview records a specialist review for a scan
// @Summary Review an eye scan
// @Description Records the specialist's diagnosis and recommendations for a scan. A scan takes exactly one review.
// @Tags scans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scan ID"
// @Param request body dto.CreateReviewRequest true "Review content"
// @Success 201 {object} dto.APIResponse{data=dto.ReviewResponse} "Review created"
// @Failure 400 {object} dto.ErrorResponse "Diagnosis or recommendations too short"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Only specialists review scans"
// @Failure 404 {object} dto.ErrorResponse "Scan not found"
// @Failure 409 {object} dto.ErrorResponse "Scan has already been reviewed"
// @Router /scans/{id}/review [post]
func (c *ScanController) CreateReview(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.scanService.CreateReview(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// ListReviews lists the reviews visible to the caller
// @Summary List scan reviews
// @Description Returns the reviews visible to the caller. Specialists see reviews they authored, patients see reviews of their own scans, admins see all.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ReviewListResponse} "Reviews"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /reviews [get]
func (c *ScanController) ListReviews(ctx *gin.Context) {
	p, ok := requirePrincipal(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.scanService.ListReviews(ctx.Request.Context(), p, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
