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
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{
	"user_id", "username", "full_name", "email", "password_hash",
	"profile_image", "role", "status", "created_at",
}

// Repository handles the users table
type Repository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRepository creates a new Repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
		&u.ProfileImage, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user and returns its id
func (r *Repository) Create(ctx context.Context, u *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("username", "full_name", "email", "password_hash", "profile_image", "role", "status").
		Values(u.Username, u.FullName, u.Email, u.PasswordHash, u.ProfileImage, u.Role, u.Status).
		Suffix("RETURNING user_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.UsersUsernameKey) {
			logger.Warn().Str("username", u.Username).Msg("Attempted to create user with duplicate username")
			return 0, apperrors.ErrUsernameTaken
		}
		logger.Error().Err(err).Str("username", u.Username).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u, err := scanUser(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": id})
}

// GetByUsername retrieves a user by exact username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// UsernameExists checks whether a username is taken
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// UpdatePassword stores a new password hash
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": hash})
}

// UpdateProfile sets full_name and profile_image; email is left untouched when nil
func (r *Repository) UpdateProfile(ctx context.Context, id int64, fullName string, email *string, profileImage *string) error {
	fields := map[string]interface{}{
		"full_name":     fullName,
		"profile_image": profileImage,
	}
	if email != nil {
		fields["email"] = *email
	}
	return r.update(ctx, id, fields)
}

// UpdateStatus sets the account status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *Repository) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	sql, args, err := r.sb.Update("users").SetMap(fields).Where(squirrel.Eq{"user_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// List returns users matching filter ordered by role, then full name
func (r *Repository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	q := r.sb.Select(userColumns...).From("users").OrderBy("role ASC", "full_name ASC", "user_id ASC")
	if v, ok := helpers.ActiveFilter(filter.Name); ok {
		q = q.Where(squirrel.ILike{"full_name": helpers.LikePattern(v)})
	}
	if v, ok := helpers.ActiveFilter(filter.Role); ok {
		q = q.Where(squirrel.Eq{"role": v})
	}
	if v, ok := helpers.ActiveFilter(filter.Status); ok {
		q = q.Where(squirrel.Eq{"status": v})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByRoleAndStatus returns the admin dashboard tallies
func (r *Repository) CountByRoleAndStatus(ctx context.Context) ([]models.UserCount, error) {
	sql, args, err := r.sb.Select("role", "status", "COUNT(*)").From("users").
		GroupBy("role", "status").OrderBy("role", "status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count users query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	defer rows.Close()

	var counts []models.UserCount
	for rows.Next() {
		var c models.UserCount
		if err := rows.Scan(&c.Role, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning user count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
