package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/dberrors"
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// ScanRecord is an eye scan joined with its owner's display name.
type ScanRecord struct {
	models.EyeScan
	UserName string
}

// ReviewRecord is a scan review joined with the reviewing specialist's name.
type ReviewRecord struct {
	models.ScanReview
	SpecialistName string
}

// ScanRepository handles eye scan and review database operations
type ScanRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScanRepository creates a new ScanRepository
func NewScanRepository(db *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new eye scan and fills in the generated ID and timestamp
func (r *ScanRepository) Create(ctx context.Context, scan *models.EyeScan) error {
	sql, args, err := r.sb.Insert("eye_scans").
		Columns("user_id", "image_path", "condition_detected", "confidence_score",
			"recommendations", "is_reviewed").
		Values(scan.UserID, scan.ImagePath, scan.ConditionDetected,
			scan.ConfidenceScore, scan.Recommendations, false).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create scan query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&scan.ID, &scan.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", scan.UserID).Msg("Error creating eye scan")
		return fmt.Errorf("error creating eye scan: %w", err)
	}
	return nil
}

// scanSelect is the base select for scans joined with their owner.
func (r *ScanRepository) scanSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.user_id", "s.image_path", "s.condition_detected",
		"s.confidence_score", "s.recommendations", "s.is_reviewed", "s.created_at",
		"u.first_name", "u.last_name", "u.username").
		From("eye_scans s").
		Join("users u ON u.id = s.user_id")
}

func scanScanRow(row pgx.Row) (*ScanRecord, error) {
	var rec ScanRecord
	var owner models.User
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ImagePath, &rec.ConditionDetected,
		&rec.ConfidenceScore, &rec.Recommendations, &rec.IsReviewed, &rec.CreatedAt,
		&owner.FirstName, &owner.LastName, &owner.Username)
	if err != nil {
		return nil, err
	}
	rec.UserName = owner.FullName()
	return &rec, nil
}

// List retrieves scans visible to the principal, newest first, with the total
// count. Out-of-scope scans are simply not part of the result.
func (r *ScanRepository) List(ctx context.Context, p auth.Principal, page, pageSize int) ([]ScanRecord, int64, error) {
	scope := auth.ScanScope(p)
	if scope == auth.ScopeNone {
		return nil, 0, nil
	}

	query := r.scanSelect().Column("COUNT(*) OVER()")
	if scope == auth.ScopeMine {
		query = query.Where(squirrel.Eq{"s.user_id": p.UserID})
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("s.created_at DESC").
		Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list scans query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing scans: %w", err)
	}
	defer rows.Close()

	var scans []ScanRecord
	var total int64
	for rows.Next() {
		var rec ScanRecord
		var owner models.User
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ImagePath, &rec.ConditionDetected,
			&rec.ConfidenceScore, &rec.Recommendations, &rec.IsReviewed, &rec.CreatedAt,
			&owner.FirstName, &owner.LastName, &owner.Username, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning scan row: %w", err)
		}
		rec.UserName = owner.FullName()
		scans = append(scans, rec)
	}
	return scans, total, rows.Err()
}

// GetByID retrieves a scan visible to the principal. Scans outside the
// principal's scope report not found, same as absent ones.
func (r *ScanRepository) GetByID(ctx context.Context, p auth.Principal, id int64) (*ScanRecord, error) {
	scope := auth.ScanScope(p)
	if scope == auth.ScopeNone {
		return nil, apperrors.ErrScanNotFound
	}

	query := r.scanSelect().Where(squirrel.Eq{"s.id": id})
	if scope == auth.ScopeMine {
		query = query.Where(squirrel.Eq{"s.user_id": p.UserID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get scan query: %w", err)
	}

	rec, err := scanScanRow(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScanNotFound
		}
		return nil, fmt.Errorf("error retrieving scan: %w", err)
	}
	return rec, nil
}

// CreateReview stores a specialist review and flips the scan's is_reviewed
// flag in the same transaction. The flag flip is a compare-and-set on
// is_reviewed = FALSE, so exactly one of two concurrent reviews wins and the
// other reports a conflict.
func (r *ScanRepository) CreateReview(ctx context.Context, review *models.ScanReview) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx,
		`UPDATE eye_scans SET is_reviewed = TRUE WHERE id = $1 AND is_reviewed = FALSE`,
		review.ScanID)
	if err != nil {
		return fmt.Errorf("error marking scan reviewed: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM eye_scans WHERE id = $1)`,
			review.ScanID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking scan existence: %w", err)
		}
		if !exists {
			return apperrors.ErrScanNotFound
		}
		return apperrors.ErrScanAlreadyReviewed
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO scan_reviews (scan_id, specialist_id, diagnosis, recommendations)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		review.ScanID, review.SpecialistID, review.Diagnosis, review.Recommendations).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrScanAlreadyReviewed
		}
		logger.Error().Err(err).Int64("scanID", review.ScanID).Msg("Error creating scan review")
		return fmt.Errorf("error creating scan review: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit review transaction: %w", err)
	}
	return nil
}

// reviewSelect is the base select for reviews joined with their specialist.
func (r *ScanRepository) reviewSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"rv.id", "rv.scan_id", "rv.specialist_id", "rv.diagnosis",
		"rv.recommendations", "rv.created_at",
		"u.first_name", "u.last_name", "u.username").
		From("scan_reviews rv").
		Join("users u ON u.id = rv.specialist_id")
}

// GetReviewByScanID retrieves the review of a scan, or nil when there is none
func (r *ScanRepository) GetReviewByScanID(ctx context.Context, scanID int64) (*ReviewRecord, error) {
	sql, args, err := r.reviewSelect().Where(squirrel.Eq{"rv.scan_id": scanID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}

	var rec ReviewRecord
	var specialist models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.ScanID, &rec.SpecialistID, &rec.Diagnosis,
		&rec.Recommendations, &rec.CreatedAt,
		&specialist.FirstName, &specialist.LastName, &specialist.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving scan review: %w", err)
	}
	rec.SpecialistName = specialist.FullName()
	return &rec, nil
}

// ListReviews retrieves reviews visible to the principal, newest first.
// Specialists see reviews they authored, patients see reviews of their own
// scans, admins see everything.
func (r *ScanRepository) ListReviews(ctx context.Context, p auth.Principal, page, pageSize int) ([]ReviewRecord, int64, error) {
	scope := auth.ReviewScope(p)
	if scope == auth.ScopeNone {
		return nil, 0, nil
	}

	query := r.reviewSelect().Column("COUNT(*) OVER()")
	if scope == auth.ScopeMine {
		switch p.Role {
		case models.RoleSpecialist:
			query = query.Where(squirrel.Eq{"rv.specialist_id": p.UserID})
		case models.RolePatient:
			query = query.Join("eye_scans s ON s.id = rv.scan_id").
				Where(squirrel.Eq{"s.user_id": p.UserID})
		default:
			return nil, 0, nil
		}
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("rv.created_at DESC").
		Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []ReviewRecord
	var total int64
	for rows.Next() {
		var rec ReviewRecord
		var specialist models.User
		err := rows.Scan(
			&rec.ID, &rec.ScanID, &rec.SpecialistID, &rec.Diagnosis,
			&rec.Recommendations, &rec.CreatedAt,
			&specialist.FirstName, &specialist.LastName, &specialist.Username, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning review row: %w", err)
		}
		rec.SpecialistName = specialist.FullName()
		reviews = append(reviews, rec)
	}
	return reviews, total, rows.Err()
}
