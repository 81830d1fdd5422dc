package models

import "time"

// Role is the fixed account role stored on users.role
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// AllRoles lists every role in display order
var AllRoles = []Role{RoleAdmin, RoleEmployer, RoleStudent}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// HomePath is where a signed-in user of this role lands
func (r Role) HomePath() string {
	switch r {
	case RoleStudent:
		return "/student/home"
	case RoleEmployer:
		return "/employer/home"
	case RoleAdmin:
		return "/admin/home"
	}
	return "/login"
}

// UserStatus is users.status
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// ApplicationStatus is application.status
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "Pending"
	ApplicationReviewed    ApplicationStatus = "Reviewed"
	ApplicationShortlisted ApplicationStatus = "Shortlisted"
	ApplicationAccepted    ApplicationStatus = "Accepted"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every status in workflow order
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationReviewed,
	ApplicationShortlisted,
	ApplicationAccepted,
	ApplicationRejected,
}

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// InternshipCategories are the fixed browse categories
var InternshipCategories = []string{"Software", "Marketing", "Research", "Design", "Data", "Engineering", "Other"}

// Principal is the signed-in identity attached to a request
type Principal struct {
	UserID    int64
	Username  string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
