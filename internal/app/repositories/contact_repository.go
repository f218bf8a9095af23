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
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// ContactRepository handles contact message database operations
type ContactRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new contact message in new status
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	m.Status = models.ContactNew

	sql, args, err := r.sb.Insert("contact_messages").
		Columns("name", "email", "subject", "message", "status").
		Values(m.Name, m.Email, m.Subject, m.Message, m.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create contact message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("email", m.Email).Msg("Error creating contact message")
		return fmt.Errorf("error creating contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) messageSelect() squirrel.SelectBuilder {
	return r.sb.Select("id", "name", "email", "subject", "message", "status",
		"assigned_to", "created_at", "updated_at").
		From("contact_messages")
}

// List retrieves contact messages, newest first, optionally filtered by
// status. Scoping to staff happens in the service; this query is unscoped.
func (r *ContactRepository) List(ctx context.Context, status *models.ContactStatus, page, pageSize int) ([]models.ContactMessage, int64, error) {
	query := r.messageSelect().Column("COUNT(*) OVER()")
	if status != nil {
		query = query.Where(squirrel.Eq{"status": *status})
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("created_at DESC").
		Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contact messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing contact messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	var total int64
	for rows.Next() {
		var m models.ContactMessage
		err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
			&m.Status, &m.AssignedTo, &m.CreatedAt, &m.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning contact message row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// GetByID retrieves a contact message by ID
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	sql, args, err := r.messageSelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get contact message query: %w", err)
	}

	var m models.ContactMessage
	err = r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Name, &m.Email,
		&m.Subject, &m.Message, &m.Status, &m.AssignedTo, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContactMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving contact message: %w", err)
	}
	return &m, nil
}

// Assign moves a new message to in_progress and records the staff member it
// was claimed by. The update is a compare-and-set on status = new, so only
// one of two concurrent claims wins.
func (r *ContactRepository) Assign(ctx context.Context, id, staffUserID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE contact_messages
		SET status = $1, assigned_to = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		models.ContactInProgress, staffUserID, id, models.ContactNew)
	if err != nil {
		logger.Error().Err(err).Int64("messageID", id).Msg("Error assigning contact message")
		return fmt.Errorf("error assigning contact message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.transitionFailure(ctx, id, "message is no longer new")
	}
	return nil
}

// Resolve moves a new or in_progress message to resolved.
func (r *ContactRepository) Resolve(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE contact_messages
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)`,
		models.ContactResolved, id, models.ContactNew, models.ContactInProgress)
	if err != nil {
		logger.Error().Err(err).Int64("messageID", id).Msg("Error resolving contact message")
		return fmt.Errorf("error resolving contact message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.transitionFailure(ctx, id, "message is already resolved")
	}
	return nil
}

func (r *ContactRepository) transitionFailure(ctx context.Context, id int64, reason string) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM contact_messages WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking contact message existence: %w", err)
	}
	if !exists {
		return apperrors.ErrContactMessageNotFound
	}
	return apperrors.NewCustomError(apperrors.ErrInvalidTransition, reason)
}
