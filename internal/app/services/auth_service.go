package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/internlink/internlink/internal/pkg/session"
	"github.com/internlink/internlink/internal/pkg/validation"
)

// User-facing auth messages
const (
	MsgMissingCredentials = "Please enter both username and password."
	MsgInvalidUsername    = "Invalid username."
	MsgInvalidPassword    = "Invalid password."
	MsgAccountInactive    = "Your account is inactive. Please contact an administrator."
	MsgTooManyAttempts    = "Too many failed login attempts. Please try again later."
	MsgUsernameTaken      = "An account already exists with this username."
	MsgSignupSuccessful   = "Registration successful! You can now log in."
	MsgLoggedOut          = "You have been logged out."
	MsgPasswordChanged    = "Password changed successfully!"
)

// AuthService handles account registration and sessions
type AuthService interface {
	Register(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *auth.IssuedSession, error)
	Logout(ctx context.Context, principal *models.Principal) error
	ChangePassword(ctx context.Context, principal models.Principal, req *dto.ChangePasswordRequest) error
	ValidateSession(ctx context.Context, token string) (*models.Principal, error)
}

type authServiceImpl struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	tx          Transactor
	storage     filestorage.FileStorage
	hasher      auth.PasswordHasher
	jwtService  *auth.JWTService
	sessions    *session.Store
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	tx Transactor,
	storage filestorage.FileStorage,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	sessions *session.Store,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		tx:          tx,
		storage:     storage,
		hasher:      hasher,
		jwtService:  jwtService,
		sessions:    sessions,
	}
}

// validateSignup collects every field error of the signup form
func (s *authServiceImpl) validateSignup(ctx context.Context, req *dto.SignupRequest) (apperrors.FieldErrors, error) {
	errs := apperrors.FieldErrors{}

	if req.Username == "" {
		errs.Add("username", "Username is required.")
	} else {
		exists, err := s.userRepo.UsernameExists(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("error checking if username exists: %w", err)
		}
		if exists {
			errs.Add("username", MsgUsernameTaken)
		} else if msg := validation.UsernameFormat(req.Username); msg != "" {
			errs.Add("username", msg)
		}
	}

	if msg := validation.Email(req.Email); msg != "" {
		errs.Add("email", msg)
	}

	if req.Password == "" {
		errs.Add("password", "Password is required.")
	} else if msg := validation.PasswordComplexity(req.Password, "Password"); msg != "" {
		errs.Add("password", msg)
	}
	if req.Password != req.ConfirmPassword {
		errs.Add("confirm_password", "Passwords do not match.")
	}

	if msg := validation.RequiredText(req.FullName, "Full name"); msg != "" {
		errs.Add("full_name", msg)
	}
	if msg := validation.RequiredText(req.University, "University"); msg != "" {
		errs.Add("university", msg)
	}
	if msg := validation.RequiredText(req.Course, "Course"); msg != "" {
		errs.Add("course", msg)
	}

	if hasFile(req.Resume) && !validation.IsPDF(req.Resume.Filename) {
		errs.Add("resume", "Resume must be a PDF file.")
	}
	if hasFile(req.ProfileImage) && !validation.IsImage(req.ProfileImage.Filename) {
		errs.Add("profile_image", "Profile image must be a PNG, JPG, JPEG, or GIF file.")
	}
	return errs, nil
}

// Register creates a student account: the user row and its student extension
func (s *authServiceImpl) Register(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.University = strings.TrimSpace(req.University)
	req.Course = strings.TrimSpace(req.Course)

	errs, err := s.validateSignup(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("username", req.Username).Msg("Error validating signup")
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	uploads := newUploadBatch(s.storage)
	var profileImage, resume string
	if hasFile(req.ProfileImage) {
		if profileImage, err = uploads.save(req.ProfileImage, "profile_"+req.Username); err != nil {
			return nil, err
		}
	}
	if hasFile(req.Resume) {
		if resume, err = uploads.save(req.Resume, "resume_"+req.Username); err != nil {
			uploads.rollback()
			return nil, err
		}
	}

	var userID, studentID int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		userID, err = s.userRepo.Create(ctx, &models.User{
			Username:     req.Username,
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hash,
			ProfileImage: helpers.StringPtr(profileImage),
			Role:         models.RoleStudent,
			Status:       models.StatusActive,
		})
		if err != nil {
			return err
		}
		studentID, err = s.studentRepo.Create(ctx, &models.Student{
			UserID:     userID,
			University: req.University,
			Course:     req.Course,
			ResumePath: helpers.StringPtr(resume),
		})
		return err
	})
	if err != nil {
		uploads.rollback()
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, apperrors.NewFieldError("username", MsgUsernameTaken)
		}
		logger.Error().Err(err).Str("username", req.Username).Msg("Error during signup")
		return nil, err
	}
	uploads.commit()

	logger.Info().Int64("userID", userID).Str("username", req.Username).Msg("Student registered")
	return &dto.SignupResponse{
		UserID:     userID,
		StudentID:  studentID,
		Username:   req.Username,
		Message:    MsgSignupSuccessful,
		RedirectTo: "/login",
	}, nil
}

// Login verifies credentials and issues a session. An inactive account is
// reported before the password is checked.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *auth.IssuedSession, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, nil, apperrors.NewBadRequestError(MsgMissingCredentials)
	}

	allowed, err := s.sessions.LoginAllowed(ctx, username)
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Login throttle unavailable")
		allowed = true
	}
	if !allowed {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrTooManyRequests, MsgTooManyAttempts)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidUsername).WithField("username")
		}
		logger.Error().Err(err).Str("username", username).Msg("Error loading user for login")
		return nil, nil, err
	}

	if !user.IsActive() {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, MsgAccountInactive)
	}

	if !s.hasher.Check(user.PasswordHash, req.Password) {
		s.recordFailure(ctx, username)
		return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidPassword).WithField("password")
	}

	issued, err := s.jwtService.Issue(auth.SessionIdentity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error issuing session")
		return nil, nil, err
	}

	if err := s.sessions.ResetLoginFailures(ctx, username); err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Failed to reset login failures")
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &dto.LoginResponse{
		User: dto.PrincipalView{
			UserID:   user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
		Token:      issued.Token,
		ExpiresIn:  int(s.jwtService.TTL().Seconds()),
		RedirectTo: user.Role.HomePath(),
	}, issued, nil
}

func (s *authServiceImpl) recordFailure(ctx context.Context, username string) {
	if err := s.sessions.RecordLoginFailure(ctx, username); err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Failed to record login failure")
	}
}

// Logout revokes the session token. It never fails the request.
func (s *authServiceImpl) Logout(ctx context.Context, principal *models.Principal) error {
	if principal == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		logger.Warn().Err(err).Int64("userID", principal.UserID).Msg("Failed to revoke session")
	}
	logger.Info().Int64("userID", principal.UserID).Msg("User logged out")
	return nil
}

// ChangePassword replaces the principal's password after checking the current one
func (s *authServiceImpl) ChangePassword(ctx context.Context, principal models.Principal, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", principal.UserID).Msg("Error loading user for password change")
		return err
	}

	errs := apperrors.FieldErrors{}
	switch {
	case req.CurrentPassword == "":
		errs.Add("current_password", "Please enter your current password.")
	case req.NewPassword == "":
		errs.Add("new_password", "Please enter a new password.")
	case req.ConfirmNewPassword == "":
		errs.Add("confirm_new_password", "Please confirm your new password.")
	case !s.hasher.Check(user.PasswordHash, req.CurrentPassword):
		errs.Add("current_password", "Incorrect current password.")
	}

	if !errs.Has("new_password") && !errs.Has("confirm_new_password") {
		if req.NewPassword != req.ConfirmNewPassword {
			errs.Add("confirm_new_password", "New password and confirmation do not match.")
			errs.Add("new_password", "New password and confirmation do not match.")
		} else if msg := validation.PasswordComplexity(req.NewPassword, "New password"); msg != "" {
			errs.Add("new_password", msg)
		} else if s.hasher.Check(user.PasswordHash, req.NewPassword) {
			errs.Add("new_password", "New password cannot be the same as your current password.")
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error updating password")
		return err
	}

	logger.Info().Int64("userID", user.ID).Msg("Password changed")
	return nil
}

// ValidateSession turns a session token into a principal. Revoked tokens are rejected.
func (s *authServiceImpl) ValidateSession(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("Session revocation check unavailable")
	} else if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, apperrors.ErrTokenInvalid
	}

	principal := &models.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}
