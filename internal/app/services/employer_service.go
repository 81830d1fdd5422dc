package services

import (
	"context"
	"errors"
	"strings"

	appauth "github.com/internlink/internlink/internal/app/auth"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/helpers"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/internlink/internlink/internal/pkg/sanitize"
)

// User-facing employer messages
const (
	MsgEmployerIncomplete = "Your employer profile is incomplete. Please update your profile before managing internships."
	MsgStatusUpdated      = "Application status updated successfully!"
	MsgInternshipCreated  = "Internship posted successfully!"
)

// EmployerService handles an employer's internships and their applications
type EmployerService interface {
	Home(ctx context.Context, principal models.Principal) (*dto.EmployerHomeView, error)
	PostedInternships(ctx context.Context, principal models.Principal) (*dto.PostedInternshipsView, error)
	CreateInternship(ctx context.Context, principal models.Principal, req *dto.CreateInternshipRequest) (*dto.CreateInternshipResponse, error)
	ManageApplications(ctx context.Context, principal models.Principal, query dto.ManageApplicationsQuery) (*dto.ManageApplicationsView, error)
	UpdateApplicationStatus(ctx context.Context, principal models.Principal, studentID, internshipID int64, req *dto.UpdateApplicationStatusRequest) error
}

type employerServiceImpl struct {
	employerRepo    repositories.IEmployerRepository
	internshipRepo  repositories.IInternshipRepository
	applicationRepo repositories.IApplicationRepository
	authz           *appauth.AuthorizationService
}

// NewEmployerService creates a new EmployerService
func NewEmployerService(
	employerRepo repositories.IEmployerRepository,
	internshipRepo repositories.IInternshipRepository,
	applicationRepo repositories.IApplicationRepository,
	authz *appauth.AuthorizationService,
) EmployerService {
	return &employerServiceImpl{
		employerRepo:    employerRepo,
		internshipRepo:  internshipRepo,
		applicationRepo: applicationRepo,
		authz:           authz,
	}
}

func (s *employerServiceImpl) employer(ctx context.Context, userID int64) (*models.Employer, error) {
	employer, err := s.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployerNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrIncompleteProfile, MsgEmployerIncomplete)
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error loading employer")
		return nil, err
	}
	return employer, nil
}

// Home returns the employer dashboard
func (s *employerServiceImpl) Home(ctx context.Context, principal models.Principal) (*dto.EmployerHomeView, error) {
	employer, err := s.employer(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	posted, err := s.internshipRepo.ListByCompany(ctx, employer.ID)
	if err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error fetching posted internships")
		return nil, err
	}
	counts, err := s.applicationRepo.CountByCompanyStatus(ctx, employer.ID)
	if err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error counting applications")
		return nil, err
	}

	return &dto.EmployerHomeView{
		User: dto.PrincipalView{
			UserID:   principal.UserID,
			Username: principal.Username,
			Role:     string(principal.Role),
		},
		CompanyName:       employer.CompanyName,
		PostedCount:       len(posted),
		ApplicationCounts: counts,
	}, nil
}

// PostedInternships lists the company's internships with application counts
func (s *employerServiceImpl) PostedInternships(ctx context.Context, principal models.Principal) (*dto.PostedInternshipsView, error) {
	employer, err := s.employer(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	internships, err := s.internshipRepo.ListByCompany(ctx, employer.ID)
	if err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error fetching employer's internships")
		return nil, err
	}
	return &dto.PostedInternshipsView{
		CompanyName: employer.CompanyName,
		Internships: internships,
	}, nil
}

// CreateInternship posts a new internship for the principal's company
func (s *employerServiceImpl) CreateInternship(ctx context.Context, principal models.Principal, req *dto.CreateInternshipRequest) (*dto.CreateInternshipResponse, error) {
	employer, err := s.employer(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	deadline, err := helpers.ParseDate(req.Deadline)
	if err != nil {
		return nil, apperrors.NewFieldError("deadline", "Deadline must be a date in YYYY-MM-DD format.")
	}
	if deadline.Before(helpers.Today()) {
		return nil, apperrors.NewFieldError("deadline", "Deadline cannot be in the past.")
	}

	internship := &models.Internship{
		CompanyID:       employer.ID,
		Title:           strings.TrimSpace(req.Title),
		Description:     sanitize.Text(req.Description),
		Location:        strings.TrimSpace(req.Location),
		Duration:        strings.TrimSpace(req.Duration),
		SkillsRequired:  helpers.StringPtr(sanitize.Text(req.SkillsRequired)),
		Deadline:        deadline,
		Stipend:         helpers.StringPtr(strings.TrimSpace(req.Stipend)),
		NumberOfOpening: req.NumberOfOpening,
	}
	if internship.Title == "" || internship.Description == "" {
		errs := apperrors.FieldErrors{}
		if internship.Title == "" {
			errs.Add("title", "Title is required.")
		}
		if internship.Description == "" {
			errs.Add("description", "Description is required.")
		}
		return nil, errs.Err()
	}

	id, err := s.internshipRepo.Create(ctx, internship)
	if err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error creating internship")
		return nil, err
	}

	logger.Info().Int64("empID", employer.ID).Int64("internshipID", id).Msg("Internship created")
	return &dto.CreateInternshipResponse{InternshipID: id, Message: MsgInternshipCreated}, nil
}

// ManageApplications lists applications to the company's internships
func (s *employerServiceImpl) ManageApplications(ctx context.Context, principal models.Principal, query dto.ManageApplicationsQuery) (*dto.ManageApplicationsView, error) {
	employer, err := s.employer(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	options := models.ApplicationFilterOptions{Statuses: models.ApplicationStatuses}
	if options.ApplicantNames, err = s.applicationRepo.ApplicantNames(ctx, employer.ID); err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error fetching applicant names")
		return nil, err
	}
	if options.InternshipTitles, err = s.applicationRepo.InternshipTitles(ctx, employer.ID); err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error fetching internship titles")
		return nil, err
	}

	applications, err := s.applicationRepo.ListForCompany(ctx, employer.ID, models.ApplicationFilter{
		ApplicantName:   query.ApplicantName,
		InternshipTitle: query.InternshipTitle,
		Status:          query.Status,
	})
	if err != nil {
		logger.Error().Err(err).Int64("empID", employer.ID).Msg("Error fetching applications for employer")
		return nil, err
	}

	return &dto.ManageApplicationsView{
		Applications: applications,
		Options:      options,
		Selected:     query,
	}, nil
}

// UpdateApplicationStatus sets status and feedback on an application to one
// of the principal's internships
func (s *employerServiceImpl) UpdateApplicationStatus(ctx context.Context, principal models.Principal, studentID, internshipID int64, req *dto.UpdateApplicationStatusRequest) error {
	status := models.ApplicationStatus(req.Status)
	if !status.Valid() {
		return apperrors.NewFieldError("status", "Please select a valid application status.")
	}

	empID, err := s.authz.ValidateApplicationOwner(ctx, principal.UserID, studentID, internshipID)
	if err != nil {
		return err
	}

	feedback := helpers.StringPtr(sanitize.Text(req.Feedback))
	if err := s.applicationRepo.UpdateStatus(ctx, studentID, internshipID, status, feedback); err != nil {
		logger.Error().Err(err).
			Int64("empID", empID).
			Int64("studentID", studentID).
			Int64("internshipID", internshipID).
			Msg("Error updating application status")
		return err
	}

	logger.Info().
		Int64("empID", empID).
		Int64("studentID", studentID).
		Int64("internshipID", internshipID).
		Str("status", string(status)).
		Msg("Application status updated")
	return nil
}
