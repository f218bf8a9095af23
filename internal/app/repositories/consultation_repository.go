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
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// ConsultationRecord is a consultation joined with participant display names.
type ConsultationRecord struct {
	models.Consultation
	UserName       string
	SpecialistName string
}

// ConsultationRepository handles consultation database operations
type ConsultationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewConsultationRepository creates a new ConsultationRepository
func NewConsultationRepository(db *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new consultation in pending status
func (r *ConsultationRepository) Create(ctx context.Context, c *models.Consultation) error {
	c.Status = models.ConsultationPending

	sql, args, err := r.sb.Insert("consultations").
		Columns("user_id", "specialist_id", "scan_id", "description", "status", "scheduled_date").
		Values(c.UserID, c.SpecialistID, helpers.GetNullInt64(c.ScanID),
			c.Description, c.Status, c.ScheduledDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create consultation query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", c.UserID).Msg("Error creating consultation")
		return fmt.Errorf("error creating consultation: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) consultationSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.user_id", "c.specialist_id", "c.scan_id", "c.description",
		"c.status", "c.scheduled_date", "c.created_at",
		"pu.first_name", "pu.last_name", "pu.username",
		"su.first_name", "su.last_name", "su.username").
		From("consultations c").
		Join("users pu ON pu.id = c.user_id").
		Join("users su ON su.id = c.specialist_id")
}

func scanConsultationValues(rec *ConsultationRecord, patient, specialist *models.User) []interface{} {
	return []interface{}{
		&rec.ID, &rec.UserID, &rec.SpecialistID, &rec.ScanID, &rec.Description,
		&rec.Status, &rec.ScheduledDate, &rec.CreatedAt,
		&patient.FirstName, &patient.LastName, &patient.Username,
		&specialist.FirstName, &specialist.LastName, &specialist.Username,
	}
}

// participantScope restricts a query to consultations the principal takes
// part in.
func participantScope(userID int64) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"c.user_id": userID},
		squirrel.Eq{"c.specialist_id": userID},
	}
}

// List retrieves consultations visible to the principal, newest first.
func (r *ConsultationRepository) List(ctx context.Context, p auth.Principal, page, pageSize int) ([]ConsultationRecord, int64, error) {
	scope := auth.ConsultationScope(p)
	if scope == auth.ScopeNone {
		return nil, 0, nil
	}

	query := r.consultationSelect().Column("COUNT(*) OVER()")
	if scope == auth.ScopeMine {
		query = query.Where(participantScope(p.UserID))
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("c.created_at DESC").
		Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list consultations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing consultations: %w", err)
	}
	defer rows.Close()

	var consultations []ConsultationRecord
	var total int64
	for rows.Next() {
		var rec ConsultationRecord
		var patient, specialist models.User
		dest := append(scanConsultationValues(&rec, &patient, &specialist), &total)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("error scanning consultation row: %w", err)
		}
		rec.UserName = patient.FullName()
		rec.SpecialistName = specialist.FullName()
		consultations = append(consultations, rec)
	}
	return consultations, total, rows.Err()
}

// GetByID retrieves a consultation visible to the principal. Consultations
// outside the principal's scope report not found, same as absent ones.
func (r *ConsultationRepository) GetByID(ctx context.Context, p auth.Principal, id int64) (*ConsultationRecord, error) {
	scope := auth.ConsultationScope(p)
	if scope == auth.ScopeNone {
		return nil, apperrors.ErrConsultationNotFound
	}

	query := r.consultationSelect().Where(squirrel.Eq{"c.id": id})
	if scope == auth.ScopeMine {
		query = query.Where(participantScope(p.UserID))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get consultation query: %w", err)
	}

	var rec ConsultationRecord
	var patient, specialist models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(scanConsultationValues(&rec, &patient, &specialist)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("error retrieving consultation: %w", err)
	}
	rec.UserName = patient.FullName()
	rec.SpecialistName = specialist.FullName()
	return &rec, nil
}

// UpdateStatus moves a consultation from one status to another. The update is
// a compare-and-set on the expected current status, so a concurrent
// transition that got there first turns this one into a conflict.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id int64, from, to models.ConsultationStatus) error {
	sql, args, err := r.sb.Update("consultations").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("consultationID", id).Msg("Error updating consultation status")
		return fmt.Errorf("error updating consultation status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM consultations WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("error checking consultation existence: %w", err)
		}
		if !exists {
			return apperrors.ErrConsultationNotFound
		}
		return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			"consultation status changed concurrently")
	}
	return nil
}
