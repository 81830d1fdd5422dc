package dto

import (
	"mime/multipart"

	"github.com/internlink/internlink/internal/app/models"
)

// BrowseInternshipsQuery holds the browse filters; "all" or empty means no filter
type BrowseInternshipsQuery struct {
	Category string `form:"category" binding:"max=100"`
	Location string `form:"location" binding:"max=100"`
	Duration string `form:"duration" binding:"max=50"`
	Stipend  string `form:"stipend" binding:"max=50"`
}

// BrowseInternshipsView is the browse page payload
type BrowseInternshipsView struct {
	Internships []*models.InternshipDetail     `json:"internships"`
	Options     models.InternshipFilterOptions `json:"options"`
	Selected    BrowseInternshipsQuery         `json:"selected"`
}

// InternshipDetailView is the detail page payload
type InternshipDetailView struct {
	Internship *models.InternshipDetail `json:"internship"`
}

// ApplicantProfile is the student data prefilled on the apply page
type ApplicantProfile struct {
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	University string  `json:"university"`
	Course     string  `json:"course"`
	ResumePath *string `json:"resumePath,omitempty"`
}

// ApplyView is the apply page payload
type ApplyView struct {
	Internship     *models.InternshipDetail `json:"internship"`
	Student        ApplicantProfile         `json:"student"`
	AlreadyApplied bool                     `json:"alreadyApplied"`
}

// ApplyRequest is the application form
type ApplyRequest struct {
	CoverLetter   string `form:"cover_letter" binding:"max=10000"`
	ReplaceResume bool   `form:"replace_resume"`

	Resume *multipart.FileHeader `form:"-"`
}

// ApplyResponse confirms a submitted application
type ApplyResponse struct {
	InternshipID int64                    `json:"internshipId"`
	Status       models.ApplicationStatus `json:"status"`
	ResumePath   string                   `json:"resumePath"`
	Message      string                   `json:"message"`
	RedirectTo   string                   `json:"redirectTo"`
}

// MyApplicationsView lists a student's applications
type MyApplicationsView struct {
	Applications []*models.StudentApplication `json:"applications"`
}

// StudentHomeView is the student dashboard
type StudentHomeView struct {
	User              PrincipalView        `json:"user"`
	ApplicationCounts []models.StatusCount `json:"applicationCounts"`
}
