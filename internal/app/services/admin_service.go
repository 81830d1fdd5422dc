package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/logger"
)

// MsgSelfDeactivation rejects an admin deactivating themselves
const MsgSelfDeactivation = "You cannot deactivate your own admin account."

// AdminService handles user administration
type AdminService interface {
	Home(ctx context.Context, principal models.Principal) (*dto.AdminHomeView, error)
	ListUsers(ctx context.Context, query dto.ListUsersQuery) (*dto.UserListView, error)
	ChangeUserStatus(ctx context.Context, principal models.Principal, userID int64, status models.UserStatus) (string, error)
}

type adminServiceImpl struct {
	userRepo repositories.IUserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repositories.IUserRepository) AdminService {
	return &adminServiceImpl{userRepo: userRepo}
}

// Home returns user counts per role and status
func (s *adminServiceImpl) Home(ctx context.Context, principal models.Principal) (*dto.AdminHomeView, error) {
	counts, err := s.userRepo.CountByRoleAndStatus(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting users")
		return nil, err
	}
	return &dto.AdminHomeView{
		User: dto.PrincipalView{
			UserID:   principal.UserID,
			Username: principal.Username,
			Role:     string(principal.Role),
		},
		UserCounts: counts,
	}, nil
}

// ListUsers returns users matching the filters, ordered by role then name
func (s *adminServiceImpl) ListUsers(ctx context.Context, query dto.ListUsersQuery) (*dto.UserListView, error) {
	users, err := s.userRepo.List(ctx, models.UserFilter{
		Name:   query.Name,
		Role:   query.Role,
		Status: query.Status,
	})
	if err != nil {
		logger.Error().Err(err).Interface("filter", query).Msg("Error listing users")
		return nil, err
	}
	return &dto.UserListView{Users: users, Selected: query}, nil
}

// ChangeUserStatus activates or deactivates an account. Admins cannot
// deactivate themselves.
func (s *adminServiceImpl) ChangeUserStatus(ctx context.Context, principal models.Principal, userID int64, status models.UserStatus) (string, error) {
	if !status.Valid() {
		return "", apperrors.NewFieldError("status", "Invalid status.")
	}
	if userID == principal.UserID && status == models.StatusInactive {
		return "", apperrors.NewCustomError(apperrors.ErrSelfDeactivation, MsgSelfDeactivation)
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.NewResourceNotFoundError("User not found.")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating user status")
		return "", err
	}

	logger.Info().
		Int64("adminID", principal.UserID).
		Int64("userID", userID).
		Str("status", string(status)).
		Msg("User status changed")
	return fmt.Sprintf("User ID %d status updated to '%s' successfully!", userID, status), nil
}
