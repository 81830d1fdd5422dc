package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// UserStore is the part of the user repository seeding needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (int64, error)
}

// AdminAccount describes the default administrator
type AdminAccount struct {
	Username string
	Password string
	Email    string
}

// CreateDefaultData creates the default admin account unless a user with
// that username already exists.
func CreateDefaultData(ctx context.Context, users UserStore, hasher auth.PasswordHasher, admin AdminAccount, lgr zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping default data")
		return nil
	}

	lgr.Info().Str("username", admin.Username).Msg("Checking default admin user...")
	existing, err := users.GetByUsername(ctx, admin.Username)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			lgr.Warn().Str("username", admin.Username).Str("role", string(existing.Role)).
				Msg("Seed admin username is taken by a non-admin account")
		} else {
			lgr.Info().Msg("Admin user already exists, skipping creation")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return fmt.Errorf("checking admin user: %w", err)
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return fmt.Errorf("hashing admin password: %w", err)
	}

	id, err := users.Create(ctx, &models.User{
		Username:     admin.Username,
		FullName:     "System Administrator",
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			lgr.Info().Msg("Admin user created concurrently, skipping")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return fmt.Errorf("creating admin user: %w", err)
	}

	lgr.Info().Int64("adminID", id).Msg("Default admin user created successfully")
	return nil
}
