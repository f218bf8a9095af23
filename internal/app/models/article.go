package models

import (
	"time"
)

// Article defines the article model based on the 'articles' table.
// Only published articles are ever exposed through the public API.
type Article struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Content     string          `json:"content" db:"content"`
	AuthorID    int64           `json:"authorId" db:"author_id"`
	Category    ArticleCategory `json:"category" db:"category" example:"prevention"`
	ImagePath   *string         `json:"imagePath,omitempty" db:"image_path"`
	IsPublished bool            `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}
