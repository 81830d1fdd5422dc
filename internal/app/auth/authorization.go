package auth

import (
	"context"
	"errors"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/logger"
)

// Messages returned to callers that fail an ownership check
const (
	MsgViewProfileDenied       = "You are not authorized to view this profile."
	MsgEditProfileDenied       = "You are not authorized to edit this profile."
	MsgManageApplicationDenied = "You are not authorized to manage this application."
)

// AuthorizationService answers ownership questions that a role guard alone cannot
type AuthorizationService struct {
	employerRepo    repositories.IEmployerRepository
	applicationRepo repositories.IApplicationRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(employerRepo repositories.IEmployerRepository, applicationRepo repositories.IApplicationRepository) *AuthorizationService {
	return &AuthorizationService{
		employerRepo:    employerRepo,
		applicationRepo: applicationRepo,
	}
}

// ResolveProfileTarget returns the user id whose profile the principal asked
// for. A zero target means their own. Only admins may look at other users.
func (s *AuthorizationService) ResolveProfileTarget(p models.Principal, target int64, edit bool) (int64, error) {
	if target == 0 || target == p.UserID {
		return p.UserID, nil
	}
	if edit {
		return 0, apperrors.NewCustomError(apperrors.ErrUnauthorizedProfile, MsgEditProfileDenied)
	}
	if p.Role != models.RoleAdmin {
		return 0, apperrors.NewCustomError(apperrors.ErrUnauthorizedProfile, MsgViewProfileDenied)
	}
	return target, nil
}

// ValidateApplicationOwner checks that the application exists and belongs to an
// internship posted by the employer behind employerUserID. It returns the
// employer's company id.
func (s *AuthorizationService) ValidateApplicationOwner(ctx context.Context, employerUserID, studentID, internshipID int64) (int64, error) {
	employer, err := s.employerRepo.GetByUserID(ctx, employerUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployerNotFound) {
			return 0, apperrors.NewCustomError(apperrors.ErrUnauthorizedApplication, MsgManageApplicationDenied)
		}
		logger.Error().Err(err).Int64("userID", employerUserID).Msg("Error loading employer in ValidateApplicationOwner")
		return 0, err
	}

	companyID, err := s.applicationRepo.GetCompanyID(ctx, studentID, internshipID)
	if err != nil {
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return 0, apperrors.NewCustomError(apperrors.ErrUnauthorizedApplication, MsgManageApplicationDenied)
		}
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("internshipID", internshipID).
			Msg("Error loading application owner")
		return 0, err
	}

	if companyID != employer.ID {
		logger.Warn().
			Int64("empID", employer.ID).
			Int64("ownerID", companyID).
			Int64("internshipID", internshipID).
			Msg("Employer attempted to manage another company's application")
		return 0, apperrors.NewCustomError(apperrors.ErrUnauthorizedApplication, MsgManageApplicationDenied)
	}
	return employer.ID, nil
}
