package dto

import (
	"time"

	"github.com/eyecare/visionai/internal/app/models"
)

// ArticleResponse represents the response for a published article
type ArticleResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Category   string    `json:"category"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ArticleListResponse represents a list of articles with pagination
type ArticleListResponse struct {
	Articles   []ArticleResponse `json:"articles"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromArticle converts a models.Article to an ArticleResponse
func FromArticle(article *models.Article, imageURL string) ArticleResponse {
	if article == nil {
		return ArticleResponse{}
	}

	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		AuthorID:  article.AuthorID,
		Category:  string(article.Category),
		ImageURL:  imageURL,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}
