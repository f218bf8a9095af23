package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/dberrors"
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password, first_name, last_name, role_type,
	is_active, phone_number, location, specialization, created_at, updated_at`

func scanUserRow(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.RoleType, &user.IsActive,
		&user.PhoneNumber, &user.Location, &user.Specialization,
		&user.CreatedAt, &user.UpdatedAt)
}

// Create creates a new user and fills in the generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	// Check availability up front for a precise error; the unique
	// constraints still win under races.
	exists, err := r.UsernameExists(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return apperrors.ErrUsernameAlreadyExists
	}

	exists, err = r.EmailExists(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, first_name, last_name, role_type,
			is_active, phone_number, location, specialization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		user.Username, user.Email, user.Password, user.FirstName, user.LastName,
		user.RoleType, user.IsActive,
		helpers.GetNullString(user.PhoneNumber),
		helpers.GetNullString(user.Location),
		helpers.GetNullString(user.Specialization)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := scanUserRow(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := scanUserRow(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := scanUserRow(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// UsernameExists checks if a username already exists
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// ListActiveSpecialists retrieves all active specialist users
func (r *UserRepository) ListActiveSpecialists(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role_type = $1 AND is_active = TRUE
		ORDER BY last_name, first_name`,
		models.RoleSpecialist)
	if err != nil {
		return nil, fmt.Errorf("error listing specialists: %w", err)
	}
	defer rows.Close()

	var specialists []models.User
	for rows.Next() {
		var user models.User
		if err := scanUserRow(rows, &user); err != nil {
			return nil, fmt.Errorf("error scanning specialist row: %w", err)
		}
		specialists = append(specialists, user)
	}
	return specialists, rows.Err()
}

// ListStaffEmails retrieves the email addresses of all active admins and
// specialists, used for the contact message fan-out.
func (r *UserRepository) ListStaffEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT email FROM users
		WHERE role_type IN ($1, $2) AND is_active = TRUE AND email <> ''`,
		models.RoleAdmin, models.RoleSpecialist)
	if err != nil {
		return nil, fmt.Errorf("error listing staff emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("error scanning email row: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// CreateSpecialistProfile stores the extended profile for a specialist
func (r *UserRepository) CreateSpecialistProfile(ctx context.Context, profile *models.SpecialistProfile) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO specialist_profiles (user_id, specialization, license_number,
			years_of_experience, hospital_affiliation, bio, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		profile.UserID, profile.Specialization, profile.LicenseNumber,
		profile.YearsOfExperience, profile.HospitalAffiliation, profile.Bio,
		profile.IsVerified).Scan(&profile.ID)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error creating specialist profile")
		return fmt.Errorf("error creating specialist profile: %w", err)
	}
	return nil
}

// GetSpecialistProfile retrieves the extended profile for a specialist user.
// Returns nil without error when the user has no stored profile.
func (r *UserRepository) GetSpecialistProfile(ctx context.Context, userID int64) (*models.SpecialistProfile, error) {
	profile := &models.SpecialistProfile{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, specialization, license_number, years_of_experience,
			hospital_affiliation, bio, is_verified
		FROM specialist_profiles
		WHERE user_id = $1`, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Specialization, &profile.LicenseNumber,
		&profile.YearsOfExperience, &profile.HospitalAffiliation, &profile.Bio,
		&profile.IsVerified)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving specialist profile: %w", err)
	}
	return profile, nil
}
