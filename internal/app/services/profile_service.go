package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	appauth "github.com/internlink/internlink/internal/app/auth"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/internlink/internlink/internal/pkg/sanitize"
	"github.com/internlink/internlink/internal/pkg/validation"
)

// MsgProfileUpdated confirms a saved profile
const MsgProfileUpdated = "Profile updated successfully!"

// ProfileService handles viewing and editing user profiles
type ProfileService interface {
	GetProfile(ctx context.Context, principal models.Principal, targetUserID int64) (*dto.ProfileView, error)
	UpdateProfile(ctx context.Context, principal models.Principal, targetUserID int64, req *dto.ProfileUpdateRequest) (*dto.ProfileView, error)
}

type profileServiceImpl struct {
	userRepo     repositories.IUserRepository
	studentRepo  repositories.IStudentRepository
	employerRepo repositories.IEmployerRepository
	tx           Transactor
	storage      filestorage.FileStorage
	authz        *appauth.AuthorizationService
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	employerRepo repositories.IEmployerRepository,
	tx Transactor,
	storage filestorage.FileStorage,
	authz *appauth.AuthorizationService,
) ProfileService {
	return &profileServiceImpl{
		userRepo:     userRepo,
		studentRepo:  studentRepo,
		employerRepo: employerRepo,
		tx:           tx,
		storage:      storage,
		authz:        authz,
	}
}

// GetProfile loads a user with the extension matching their stored role
func (s *profileServiceImpl) GetProfile(ctx context.Context, principal models.Principal, targetUserID int64) (*dto.ProfileView, error) {
	userID, err := s.authz.ResolveProfileTarget(principal, targetUserID, false)
	if err != nil {
		return nil, err
	}
	return s.loadProfile(ctx, userID, userID == principal.UserID)
}

func (s *profileServiceImpl) loadProfile(ctx context.Context, userID int64, isOwn bool) (*dto.ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found.")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error loading profile user")
		return nil, err
	}

	view := &dto.ProfileView{User: user, IsOwn: isOwn}
	switch user.Role {
	case models.RoleStudent:
		student, err := s.studentRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
			logger.Error().Err(err).Int64("userID", userID).Msg("Error loading student profile")
			return nil, err
		}
		view.Student = student
	case models.RoleEmployer:
		employer, err := s.employerRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrEmployerNotFound) {
			logger.Error().Err(err).Int64("userID", userID).Msg("Error loading employer profile")
			return nil, err
		}
		view.Employer = employer
	}
	return view, nil
}

func trimProfileRequest(req *dto.ProfileUpdateRequest) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.University = strings.TrimSpace(req.University)
	req.Course = strings.TrimSpace(req.Course)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.CompanyDescription = strings.TrimSpace(req.CompanyDescription)
	req.Website = strings.TrimSpace(req.Website)
}

// requiredFor checks a required field of a role extension
func requiredFor(errs apperrors.FieldErrors, field, value, label, role string) {
	if value == "" {
		errs.Add(field, label+" is required for "+role+" profile.")
	} else if msg := validation.RequiredText(value, label); msg != "" {
		errs.Add(field, msg)
	}
}

// validateProfile applies the rules of the editor's role
func validateProfile(role models.Role, req *dto.ProfileUpdateRequest) error {
	errs := apperrors.FieldErrors{}

	if msg := validation.RequiredText(req.FullName, "Full name"); msg != "" {
		errs.Add("full_name", msg)
	}

	switch role {
	case models.RoleAdmin:
		switch {
		case req.Email == "":
			errs.Add("email", "Email is required for Admin profile.")
		case utf8.RuneCountInString(req.Email) > validation.TextMaxLength:
			errs.Add("email", "Email address cannot exceed 100 characters.")
		case !validation.CompiledPatterns.Email.MatchString(req.Email):
			errs.Add("email", "Invalid email address.")
		}

	case models.RoleStudent:
		requiredFor(errs, "university", req.University, "University", "Student")
		requiredFor(errs, "course", req.Course, "Course", "Student")
		if hasFile(req.Resume) && !validation.IsPDF(req.Resume.Filename) {
			errs.Add("resume", "Resume must be a PDF file.")
		}

	case models.RoleEmployer:
		requiredFor(errs, "company_name", req.CompanyName, "Company name", "Employer")
		if msg := validation.Website(req.Website); msg != "" {
			errs.Add("website", msg)
		}
		if hasFile(req.Logo) && !validation.IsImage(req.Logo.Filename) {
			errs.Add("logo", "Company logo must be an image file (PNG, JPG, JPEG, GIF).")
		}
	}

	if hasFile(req.ProfileImage) && !validation.IsImage(req.ProfileImage.Filename) {
		errs.Add("profile_image", "Profile image must be an image file (PNG, JPG, JPEG, GIF).")
	}
	return errs.Err()
}

// UpdateProfile saves the principal's own profile. The user row and the role
// extension are written in one transaction; superseded files are deleted only
// after it commits.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, principal models.Principal, targetUserID int64, req *dto.ProfileUpdateRequest) (*dto.ProfileView, error) {
	userID, err := s.authz.ResolveProfileTarget(principal, targetUserID, true)
	if err != nil {
		return nil, err
	}

	trimProfileRequest(req)
	if err := validateProfile(principal.Role, req); err != nil {
		return nil, err
	}

	current, err := s.loadProfile(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	uploads := newUploadBatch(s.storage)
	var write func(ctx context.Context) error
	switch principal.Role {
	case models.RoleEmployer:
		write, err = s.prepareEmployer(current, req, uploads)
	case models.RoleStudent:
		write, err = s.prepareStudent(current, req, uploads)
	default:
		write, err = s.prepareAdmin(current, req, uploads)
	}
	if err != nil {
		uploads.rollback()
		return nil, err
	}

	if err := s.tx.WithinTransaction(ctx, write); err != nil {
		uploads.rollback()
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating profile")
		return nil, err
	}
	uploads.commit()

	logger.Info().Int64("userID", userID).Str("role", string(principal.Role)).Msg("Profile updated")
	return s.loadProfile(ctx, userID, true)
}

// resolveUpload decides the stored path of a replaceable file: removed,
// replaced by a fresh upload, or kept
func resolveUpload(current *string, remove bool, upload func() (string, error), uploads *uploadBatch) (*string, error) {
	if remove {
		uploads.retire(current)
		return nil, nil
	}
	stored, err := upload()
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return current, nil
	}
	uploads.retire(current)
	return &stored, nil
}

func (s *profileServiceImpl) prepareAdmin(current *dto.ProfileView, req *dto.ProfileUpdateRequest, uploads *uploadBatch) (func(context.Context) error, error) {
	user := current.User
	image, err := resolveUpload(user.ProfileImage, req.RemoveProfileImage, func() (string, error) {
		return uploads.save(req.ProfileImage, fmt.Sprintf("profile_%d", user.ID))
	}, uploads)
	if err != nil {
		return nil, err
	}

	email := req.Email
	return func(ctx context.Context) error {
		return s.userRepo.UpdateProfile(ctx, user.ID, req.FullName, &email, image)
	}, nil
}

func (s *profileServiceImpl) prepareStudent(current *dto.ProfileView, req *dto.ProfileUpdateRequest, uploads *uploadBatch) (func(context.Context) error, error) {
	user := current.User
	if current.Student == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrIncompleteProfile, "Student profile not found. Please ensure your student details are complete.")
	}

	image, err := resolveUpload(user.ProfileImage, req.RemoveProfileImage, func() (string, error) {
		return uploads.save(req.ProfileImage, fmt.Sprintf("profile_%d", user.ID))
	}, uploads)
	if err != nil {
		return nil, err
	}
	resume, err := resolveUpload(current.Student.ResumePath, req.RemoveResume, func() (string, error) {
		return uploads.save(req.Resume, fmt.Sprintf("resume_%d", user.ID))
	}, uploads)
	if err != nil {
		return nil, err
	}

	student := *current.Student
	student.University = req.University
	student.Course = req.Course
	student.ResumePath = resume

	return func(ctx context.Context) error {
		if err := s.userRepo.UpdateProfile(ctx, user.ID, req.FullName, nil, image); err != nil {
			return err
		}
		return s.studentRepo.Update(ctx, &student)
	}, nil
}

// prepareEmployer treats the profile image and the company logo as one
// shared image: an upload of either replaces both, removing either clears both.
func (s *profileServiceImpl) prepareEmployer(current *dto.ProfileView, req *dto.ProfileUpdateRequest, uploads *uploadBatch) (func(context.Context) error, error) {
	user := current.User
	if current.Employer == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrIncompleteProfile, "Employer profile not found.")
	}
	currentLogo := current.Employer.LogoPath

	upload := req.ProfileImage
	if !hasFile(upload) {
		upload = req.Logo
	}

	var image *string
	switch {
	case hasFile(upload):
		stored, err := uploads.save(upload, fmt.Sprintf("employer_%d", user.ID))
		if err != nil {
			return nil, err
		}
		uploads.retire(user.ProfileImage)
		uploads.retire(currentLogo)
		image = &stored
	case req.RemoveProfileImage || req.RemoveLogo:
		uploads.retire(user.ProfileImage)
		uploads.retire(currentLogo)
	case user.ProfileImage != nil:
		image = user.ProfileImage
	default:
		image = currentLogo
	}

	employer := *current.Employer
	employer.CompanyName = req.CompanyName
	employer.CompanyDescription = helpers.StringPtr(sanitize.Text(req.CompanyDescription))
	employer.Website = helpers.StringPtr(req.Website)
	employer.LogoPath = image

	return func(ctx context.Context) error {
		if err := s.userRepo.UpdateProfile(ctx, user.ID, req.FullName, nil, image); err != nil {
			return err
		}
		return s.employerRepo.Update(ctx, &employer)
	}, nil
}
