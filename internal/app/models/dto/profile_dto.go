package dto

import (
	"mime/multipart"

	"github.com/internlink/internlink/internal/app/models"
)

// ProfileView is a user's profile with the extension matching their role
type ProfileView struct {
	User     *models.User     `json:"user"`
	Student  *models.Student  `json:"student,omitempty"`
	Employer *models.Employer `json:"employer,omitempty"`
	IsOwn    bool             `json:"isOwn"`
}

// ProfileUpdateRequest is the profile edit form. Fields irrelevant to the
// editor's role are ignored.
type ProfileUpdateRequest struct {
	FullName           string `form:"full_name"`
	Email              string `form:"email"`
	University         string `form:"university"`
	Course             string `form:"course"`
	CompanyName        string `form:"company_name"`
	CompanyDescription string `form:"company_description"`
	Website            string `form:"website"`
	RemoveProfileImage bool   `form:"remove_profile_image"`
	RemoveResume       bool   `form:"remove_resume"`
	RemoveLogo         bool   `form:"remove_logo"`

	ProfileImage *multipart.FileHeader `form:"-"`
	Resume       *multipart.FileHeader `form:"-"`
	Logo         *multipart.FileHeader `form:"-"`
}
