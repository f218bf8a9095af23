package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/repositories"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/filestorage"
	"github.com/eyecare/visionai/internal/pkg/helpers"
)

// articleStore is the part of the article repository the service needs.
type articleStore interface {
	ListPublished(ctx context.Context, category *models.ArticleCategory, page, pageSize int) ([]repositories.ArticleRecord, int64, error)
	GetPublishedByID(ctx context.Context, id int64) (*repositories.ArticleRecord, error)
}

// ArticleService serves published articles to the public
type ArticleService struct {
	articles articleStore
	storage  filestorage.Storage
	logger   zerolog.Logger
}

// NewArticleService creates a new ArticleService
func NewArticleService(articles articleStore, storage filestorage.Storage, logger zerolog.Logger) *ArticleService {
	return &ArticleService{
		articles: articles,
		storage:  storage,
		logger:   logger,
	}
}

// ListArticles returns published articles, optionally filtered by category.
// An unknown category yields a validation error rather than an empty list.
func (s *ArticleService) ListArticles(ctx context.Context, category string, page, pageSize int) (*dto.ArticleListResponse, error) {
	var filter *models.ArticleCategory
	if category != "" {
		cat := models.ArticleCategory(category)
		if !cat.Valid() {
			return nil, apperrors.NewValidationError("category",
				"category must be prevention, symptoms, treatment or general")
		}
		filter = &cat
	}

	records, total, err := s.articles.ListPublished(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	articles := make([]dto.ArticleResponse, 0, len(records))
	for i := range records {
		articles = append(articles, s.articleResponse(&records[i]))
	}

	return &dto.ArticleListResponse{
		Articles:   articles,
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// GetArticle returns a single published article. Unpublished articles are
// absent.
func (s *ArticleService) GetArticle(ctx context.Context, id int64) (*dto.ArticleResponse, error) {
	record, err := s.articles.GetPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.articleResponse(record)
	return &resp, nil
}

func (s *ArticleService) articleResponse(record *repositories.ArticleRecord) dto.ArticleResponse {
	imageURL := ""
	if record.ImagePath != nil {
		imageURL = s.storage.URL(*record.ImagePath)
	}
	resp := dto.FromArticle(&record.Article, imageURL)
	resp.AuthorName = record.AuthorName
	return resp
}
