package dto

import "github.com/internlink/internlink/internal/app/models"

// PostedInternshipsView lists an employer's internships
type PostedInternshipsView struct {
	CompanyName string                     `json:"companyName"`
	Internships []*models.PostedInternship `json:"internships"`
}

// CreateInternshipRequest is the new internship form
type CreateInternshipRequest struct {
	Title           string `form:"title" json:"title" binding:"required,max=150"`
	Description     string `form:"description" json:"description" binding:"required"`
	Location        string `form:"location" json:"location" binding:"required,max=100"`
	Duration        string `form:"duration" json:"duration" binding:"required,max=50"`
	SkillsRequired  string `form:"skills_required" json:"skillsRequired"`
	Deadline        string `form:"deadline" json:"deadline" binding:"required,datetime=2006-01-02"`
	Stipend         string `form:"stipend" json:"stipend" binding:"max=50"`
	NumberOfOpening int    `form:"number_of_opening" json:"numberOfOpening" binding:"required,min=1,max=1000"`
}

// CreateInternshipResponse confirms a created internship
type CreateInternshipResponse struct {
	InternshipID int64  `json:"internshipId"`
	Message      string `json:"message"`
}

// ManageApplicationsQuery holds the exact-match filters; "all" or empty means no filter
type ManageApplicationsQuery struct {
	ApplicantName   string `form:"applicant_name" binding:"max=100"`
	InternshipTitle string `form:"internship_title" binding:"max=150"`
	Status          string `form:"status" binding:"omitempty,oneof=all Pending Reviewed Shortlisted Accepted Rejected"`
}

// ManageApplicationsView is the application management payload
type ManageApplicationsView struct {
	Applications []*models.ManagedApplication   `json:"applications"`
	Options      models.ApplicationFilterOptions `json:"options"`
	Selected     ManageApplicationsQuery         `json:"selected"`
}

// UpdateApplicationStatusRequest is the status update form
type UpdateApplicationStatusRequest struct {
	Status   string `form:"status" json:"status" binding:"required,oneof=Pending Reviewed Shortlisted Accepted Rejected"`
	Feedback string `form:"feedback" json:"feedback" binding:"max=5000"`
}

// EmployerHomeView is the employer dashboard
type EmployerHomeView struct {
	User              PrincipalView        `json:"user"`
	CompanyName       string               `json:"companyName"`
	PostedCount       int                  `json:"postedCount"`
	ApplicationCounts []models.StatusCount `json:"applicationCounts"`
}
