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
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/internlink/internlink/internal/pkg/sanitize"
	"github.com/internlink/internlink/internal/pkg/validation"
)

// User-facing student messages
const (
	MsgInternshipNotFound   = "Internship not found."
	MsgAlreadyApplied       = "You have already applied for this internship."
	MsgResumeRequired       = "A resume is required to apply for an internship."
	MsgResumeNotPDF         = "Resume must be a PDF file."
	MsgStudentIncomplete    = "Your student profile is incomplete. Please update your profile before applying for internships."
	MsgApplicationSubmitted = "Application submitted successfully! You can track its status in 'My Applications'."
	MsgDeadlinePassed       = "The application deadline for this internship has passed."
)

// StudentService handles internship browsing and applications
type StudentService interface {
	Home(ctx context.Context, principal models.Principal) (*dto.StudentHomeView, error)
	BrowseInternships(ctx context.Context, query dto.BrowseInternshipsQuery) (*dto.BrowseInternshipsView, error)
	GetInternship(ctx context.Context, internshipID int64) (*dto.InternshipDetailView, error)
	GetApplyForm(ctx context.Context, principal models.Principal, internshipID int64) (*dto.ApplyView, error)
	Apply(ctx context.Context, principal models.Principal, internshipID int64, req *dto.ApplyRequest) (*dto.ApplyResponse, error)
	MyApplications(ctx context.Context, principal models.Principal) (*dto.MyApplicationsView, error)
}

type studentServiceImpl struct {
	userRepo        repositories.IUserRepository
	studentRepo     repositories.IStudentRepository
	internshipRepo  repositories.IInternshipRepository
	applicationRepo repositories.IApplicationRepository
	tx              Transactor
	storage         filestorage.FileStorage
}

// NewStudentService creates a new StudentService
func NewStudentService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	internshipRepo repositories.IInternshipRepository,
	applicationRepo repositories.IApplicationRepository,
	tx Transactor,
	storage filestorage.FileStorage,
) StudentService {
	return &studentServiceImpl{
		userRepo:        userRepo,
		studentRepo:     studentRepo,
		internshipRepo:  internshipRepo,
		applicationRepo: applicationRepo,
		tx:              tx,
		storage:         storage,
	}
}

// student loads the principal's student row
func (s *studentServiceImpl) student(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrIncompleteProfile, MsgStudentIncomplete)
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error loading student")
		return nil, err
	}
	return student, nil
}

func (s *studentServiceImpl) internship(ctx context.Context, internshipID int64) (*models.InternshipDetail, error) {
	internship, err := s.internshipRepo.GetDetail(ctx, internshipID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInternshipNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgInternshipNotFound)
		}
		logger.Error().Err(err).Int64("internshipID", internshipID).Msg("Error loading internship")
		return nil, err
	}
	return internship, nil
}

// Home returns the student dashboard
func (s *studentServiceImpl) Home(ctx context.Context, principal models.Principal) (*dto.StudentHomeView, error) {
	view := &dto.StudentHomeView{
		User: dto.PrincipalView{
			UserID:   principal.UserID,
			Username: principal.Username,
			Role:     string(principal.Role),
		},
		ApplicationCounts: []models.StatusCount{},
	}

	student, err := s.studentRepo.GetByUserID(ctx, principal.UserID)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		return view, nil
	}
	if err != nil {
		logger.Error().Err(err).Int64("userID", principal.UserID).Msg("Error loading student for home")
		return nil, err
	}

	counts, err := s.applicationRepo.CountByStudentStatus(ctx, student.ID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error counting applications")
		return nil, err
	}
	view.ApplicationCounts = counts
	return view, nil
}

// BrowseInternships lists open internships matching the filters with the
// values each filter can take
func (s *studentServiceImpl) BrowseInternships(ctx context.Context, query dto.BrowseInternshipsQuery) (*dto.BrowseInternshipsView, error) {
	options := models.InternshipFilterOptions{Categories: models.InternshipCategories}

	var err error
	if options.Locations, err = s.internshipRepo.DistinctValues(ctx, "location"); err != nil {
		logger.Error().Err(err).Msg("Error fetching location filter options")
		return nil, err
	}
	if options.Durations, err = s.internshipRepo.DistinctValues(ctx, "duration"); err != nil {
		logger.Error().Err(err).Msg("Error fetching duration filter options")
		return nil, err
	}
	if options.Stipends, err = s.internshipRepo.DistinctValues(ctx, "stipend"); err != nil {
		logger.Error().Err(err).Msg("Error fetching stipend filter options")
		return nil, err
	}

	internships, err := s.internshipRepo.ListOpen(ctx, models.InternshipFilter{
		Category: query.Category,
		Location: query.Location,
		Duration: query.Duration,
		Stipend:  query.Stipend,
	})
	if err != nil {
		logger.Error().Err(err).Interface("filter", query).Msg("Error fetching internships")
		return nil, err
	}

	return &dto.BrowseInternshipsView{
		Internships: internships,
		Options:     options,
		Selected:    query,
	}, nil
}

// GetInternship returns one internship with its employer's public fields
func (s *studentServiceImpl) GetInternship(ctx context.Context, internshipID int64) (*dto.InternshipDetailView, error) {
	internship, err := s.internship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	return &dto.InternshipDetailView{Internship: internship}, nil
}

// GetApplyForm prefills the application form
func (s *studentServiceImpl) GetApplyForm(ctx context.Context, principal models.Principal, internshipID int64) (*dto.ApplyView, error) {
	student, err := s.student(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	applied, err := s.applicationRepo.Exists(ctx, student.ID, internshipID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Int64("internshipID", internshipID).Msg("Error checking application")
		return nil, err
	}

	internship, err := s.internship(ctx, internshipID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", principal.UserID).Msg("Error loading applicant")
		return nil, err
	}

	return &dto.ApplyView{
		Internship: internship,
		Student: dto.ApplicantProfile{
			FullName:   user.FullName,
			Email:      user.Email,
			University: student.University,
			Course:     student.Course,
			ResumePath: student.ResumePath,
		},
		AlreadyApplied: applied,
	}, nil
}

// Apply submits an application. A resume must end up on file: the stored one,
// or a freshly uploaded PDF which then replaces it.
func (s *studentServiceImpl) Apply(ctx context.Context, principal models.Principal, internshipID int64, req *dto.ApplyRequest) (*dto.ApplyResponse, error) {
	student, err := s.student(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	applied, err := s.applicationRepo.Exists(ctx, student.ID, internshipID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Int64("internshipID", internshipID).Msg("Error checking application")
		return nil, err
	}
	if applied {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadyApplied, MsgAlreadyApplied)
	}

	internship, err := s.internship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.Deadline.Before(helpers.Today()) {
		return nil, apperrors.NewBadRequestError(MsgDeadlinePassed)
	}

	uploads := newUploadBatch(s.storage)
	resume := student.ResumePath
	switch {
	case hasFile(req.Resume):
		if !validation.IsPDF(req.Resume.Filename) {
			return nil, apperrors.NewFieldError("resume", MsgResumeNotPDF)
		}
		stored, err := uploads.save(req.Resume, fmt.Sprintf("resume_%d_%d", principal.UserID, internshipID))
		if err != nil {
			return nil, err
		}
		uploads.retire(student.ResumePath)
		resume = &stored
	case req.ReplaceResume:
		resume = nil
	}
	if resume == nil {
		return nil, apperrors.NewFieldError("resume", MsgResumeRequired)
	}

	application := &models.Application{
		StudentID:    student.ID,
		InternshipID: internshipID,
		Status:       models.ApplicationPending,
		CoverLetter:  helpers.StringPtr(sanitize.Text(strings.TrimSpace(req.CoverLetter))),
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if helpers.Deref(resume) != helpers.Deref(student.ResumePath) {
			if err := s.studentRepo.UpdateResume(ctx, student.ID, resume); err != nil {
				return err
			}
		}
		return s.applicationRepo.Create(ctx, application)
	})
	if err != nil {
		uploads.rollback()
		if errors.Is(err, apperrors.ErrAlreadyApplied) {
			return nil, apperrors.NewCustomError(apperrors.ErrAlreadyApplied, MsgAlreadyApplied)
		}
		if errors.Is(err, apperrors.ErrInternshipNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgInternshipNotFound)
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Int64("internshipID", internshipID).Msg("Error submitting application")
		return nil, err
	}
	uploads.commit()

	logger.Info().Int64("studentID", student.ID).Int64("internshipID", internshipID).Msg("Application submitted")
	return &dto.ApplyResponse{
		InternshipID: internshipID,
		Status:       application.Status,
		ResumePath:   *resume,
		Message:      MsgApplicationSubmitted,
		RedirectTo:   "/my_applications",
	}, nil
}

// MyApplications lists the principal's applications, latest deadline first
func (s *studentServiceImpl) MyApplications(ctx context.Context, principal models.Principal) (*dto.MyApplicationsView, error) {
	student, err := s.studentRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrIncompleteProfile,
				"Student profile not found. Please ensure your student details are complete.")
		}
		logger.Error().Err(err).Int64("userID", principal.UserID).Msg("Error loading student")
		return nil, err
	}

	applications, err := s.applicationRepo.ListByStudent(ctx, student.ID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error fetching applications")
		return nil, err
	}
	return &dto.MyApplicationsView{Applications: applications}, nil
}
