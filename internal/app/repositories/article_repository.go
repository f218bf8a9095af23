package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// ArticleRecord is an article joined with its author's display name.
type ArticleRecord struct {
	models.Article
	AuthorName string
}

// ArticleRepository handles article database operations. The public read
// paths only ever see published articles.
type ArticleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new article
func (r *ArticleRepository) Create(ctx context.Context, a *models.Article) error {
	sql, args, err := r.sb.Insert("articles").
		Columns("title", "content", "author_id", "category", "image_path", "is_published").
		Values(a.Title, a.Content, a.AuthorID, a.Category,
			helpers.GetNullString(a.ImagePath), a.IsPublished).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create article query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("title", a.Title).Msg("Error creating article")
		return fmt.Errorf("error creating article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) articleSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.title", "a.content", "a.author_id", "a.category",
		"a.image_path", "a.is_published", "a.created_at", "a.updated_at",
		"u.first_name", "u.last_name", "u.username").
		From("articles a").
		Join("users u ON u.id = a.author_id")
}

// ListPublished retrieves published articles, newest first, optionally
// filtered by category. Unpublished articles never leave this repository.
func (r *ArticleRepository) ListPublished(ctx context.Context, category *models.ArticleCategory, page, pageSize int) ([]ArticleRecord, int64, error) {
	query := r.articleSelect().Column("COUNT(*) OVER()").
		Where(squirrel.Eq{"a.is_published": true})
	if category != nil {
		query = query.Where(squirrel.Eq{"a.category": *category})
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("a.created_at DESC").
		Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list articles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing articles: %w", err)
	}
	defer rows.Close()

	var articles []ArticleRecord
	var total int64
	for rows.Next() {
		var rec ArticleRecord
		var author models.User
		err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Content, &rec.AuthorID, &rec.Category,
			&rec.ImagePath, &rec.IsPublished, &rec.CreatedAt, &rec.UpdatedAt,
			&author.FirstName, &author.LastName, &author.Username, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning article row: %w", err)
		}
		rec.AuthorName = author.FullName()
		articles = append(articles, rec)
	}
	return articles, total, rows.Err()
}

// GetPublishedByID retrieves a published article by ID. Unpublished articles
// report not found, same as absent ones.
func (r *ArticleRepository) GetPublishedByID(ctx context.Context, id int64) (*ArticleRecord, error) {
	sql, args, err := r.articleSelect().
		Where(squirrel.Eq{"a.id": id, "a.is_published": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get article query: %w", err)
	}

	var rec ArticleRecord
	var author models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.Title, &rec.Content, &rec.AuthorID, &rec.Category,
		&rec.ImagePath, &rec.IsPublished, &rec.CreatedAt, &rec.UpdatedAt,
		&author.FirstName, &author.LastName, &author.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, fmt.Errorf("error retrieving article: %w", err)
	}
	rec.AuthorName = author.FullName()
	return &rec, nil
}

// CountArticles returns the total number of articles, published or not.
// Used by the seeder to decide whether starter content is needed.
func (r *ArticleRepository) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting articles: %w", err)
	}
	return count, nil
}
