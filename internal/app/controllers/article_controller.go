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

// ArticleController serves published articles to the public
type ArticleController struct {
	articleService *services.ArticleService
	logger         zerolog.Logger
}

// NewArticleController creates a new ArticleController
func NewArticleController(articleService *services.ArticleService, logger zerolog.Logger) *ArticleController {
	return &ArticleController{
		articleService: articleService,
		logger:         logger,
	}
}

// ListArticles lists published articles
// @Summary List published articles
// @Description Returns published articles, optionally filtered by category. No authentication required.
// @Tags articles
// @Produce json
// @Param category query string false "Filter by category" Enums(prevention, symptoms, treatment, general)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ArticleListResponse} "Articles"
// @Failure 400 {object} dto.ErrorResponse "Unknown category"
// @Router /articles [get]
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.articleService.ListArticles(ctx.Request.Context(), ctx.Query("category"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// GetArticle returns a single published article
// @Summary Get a published article
// @Description Returns a single published article. Unpublished articles read as absent.
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} dto.APIResponse{data=dto.ArticleResponse} "Article"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{id} [get]
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.articleService.GetArticle(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
