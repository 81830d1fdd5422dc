package dto

import "mime/multipart"

// SignupRequest is the student registration form
type SignupRequest struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	FullName        string `form:"full_name"`
	University      string `form:"university"`
	Course          string `form:"course"`

	ProfileImage *multipart.FileHeader `form:"-"`
	Resume       *multipart.FileHeader `form:"-"`
}

// SignupResponse is returned after a successful registration
type SignupResponse struct {
	UserID     int64  `json:"userId"`
	StudentID  int64  `json:"studentId"`
	Username   string `json:"username"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

// LoginRequest is the login form
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// PrincipalView is the public identity of a signed-in user
type PrincipalView struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse carries the session token and where to go next
type LoginResponse struct {
	User       PrincipalView `json:"user"`
	Token      string        `json:"token"`
	ExpiresIn  int           `json:"expiresIn"`
	RedirectTo string        `json:"redirectTo"`
}

// FormView is returned by GET on a form endpoint for an anonymous visitor
type FormView struct {
	Form   string            `json:"form"`
	Fields []string          `json:"fields"`
	Values map[string]string `json:"values,omitempty"`
}

// ChangePasswordRequest is the change password form
type ChangePasswordRequest struct {
	CurrentPassword    string `form:"current_password"`
	NewPassword        string `form:"new_password"`
	ConfirmNewPassword string `form:"confirm_new_password"`
}
