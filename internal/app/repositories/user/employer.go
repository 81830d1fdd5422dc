package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/db"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/dberrors"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmployerRepository handles employer database operations
type EmployerRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployerRepository creates a new EmployerRepository
func NewEmployerRepository(db *pgxpool.Pool) *EmployerRepository {
	return &EmployerRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the employer extension row of a user
func (r *EmployerRepository) Create(ctx context.Context, e *models.Employer) (int64, error) {
	sql, args, err := r.sb.Insert("employer").
		Columns("user_id", "company_name", "company_description", "website", "logo_path").
		Values(e.UserID, e.CompanyName, e.CompanyDescription, e.Website, e.LogoPath).
		Suffix("RETURNING emp_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create employer query: %w", err)
	}

	var id int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.EmployerUserIDKey) {
			return 0, apperrors.NewConflictError("employer profile already exists for this user")
		}
		logger.Error().Err(err).Int64("userID", e.UserID).Msg("Error executing create employer query")
		return 0, fmt.Errorf("error creating employer: %w", err)
	}
	return id, nil
}

// GetByUserID retrieves an employer by user ID
func (r *EmployerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Employer, error) {
	sql, args, err := r.sb.Select("emp_id", "user_id", "company_name", "company_description", "website", "logo_path").
		From("employer").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get employer query: %w", err)
	}

	var e models.Employer
	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(
		&e.ID, &e.UserID, &e.CompanyName, &e.CompanyDescription, &e.Website, &e.LogoPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployerNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting employer by user ID")
		return nil, fmt.Errorf("error getting employer: %w", err)
	}
	return &e, nil
}

// Update writes the company fields keyed by user id
func (r *EmployerRepository) Update(ctx context.Context, e *models.Employer) error {
	sql, args, err := r.sb.Update("employer").
		Set("company_name", e.CompanyName).
		Set("company_description", e.CompanyDescription).
		Set("website", e.Website).
		Set("logo_path", e.LogoPath).
		Where(squirrel.Eq{"user_id": e.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update employer query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", e.UserID).Msg("Error updating employer")
		return fmt.Errorf("error updating employer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEmployerNotFound
	}
	return nil
}
