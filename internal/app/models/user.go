package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"userId" db:"user_id"`
	Username     string     `json:"username" db:"username"`
	FullName     string     `json:"fullName" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	ProfileImage *string    `json:"profileImage,omitempty" db:"profile_image"`
	Role         Role       `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// IsActive reports whether the account may sign in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Student defines the 'student' extension of a user
type Student struct {
	ID         int64   `json:"studentId" db:"student_id"`
	UserID     int64   `json:"userId" db:"user_id"`
	University string  `json:"university" db:"university"`
	Course     string  `json:"course" db:"course"`
	ResumePath *string `json:"resumePath,omitempty" db:"resume_path"`
}

// Employer defines the 'employer' extension of a user
type Employer struct {
	ID                 int64   `json:"empId" db:"emp_id"`
	UserID             int64   `json:"userId" db:"user_id"`
	CompanyName        string  `json:"companyName" db:"company_name"`
	CompanyDescription *string `json:"companyDescription,omitempty" db:"company_description"`
	Website            *string `json:"website,omitempty" db:"website"`
	LogoPath           *string `json:"logoPath,omitempty" db:"logo_path"`
}

// UserFilter narrows the admin user listing. Empty fields do not restrict.
type UserFilter struct {
	Name   string
	Role   string
	Status string
}

// UserCount is one (role, status) bucket of the admin dashboard
type UserCount struct {
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
	Count  int        `json:"count"`
}
