package models

import "time"

// Application defines the 'application' table; (StudentID, InternshipID) is the key
type Application struct {
	StudentID    int64             `json:"studentId" db:"student_id"`
	InternshipID int64             `json:"internshipId" db:"internship_id"`
	Status       ApplicationStatus `json:"status" db:"status"`
	CoverLetter  *string           `json:"coverLetter,omitempty" db:"cover_letter"`
	Feedback     *string           `json:"feedback,omitempty" db:"feedback"`
	AppliedAt    time.Time         `json:"appliedAt" db:"applied_at"`
}

// StudentApplication is a row of a student's own application list
type StudentApplication struct {
	InternshipID int64             `json:"internshipId"`
	Title        string            `json:"title"`
	Location     string            `json:"location"`
	CompanyName  string            `json:"companyName"`
	Status       ApplicationStatus `json:"status"`
	Feedback     *string           `json:"feedback,omitempty"`
	Deadline     time.Time         `json:"deadline"`
}

// ManagedApplication is a row of an employer's application management list
type ManagedApplication struct {
	StudentID          int64             `json:"studentId"`
	InternshipID       int64             `json:"internshipId"`
	Status             ApplicationStatus `json:"status"`
	Feedback           *string           `json:"feedback,omitempty"`
	CoverLetter        *string           `json:"coverLetter,omitempty"`
	FullName           string            `json:"fullName"`
	Email              string            `json:"email"`
	University         string            `json:"university"`
	Course             string            `json:"course"`
	ResumePath         *string           `json:"resumePath,omitempty"`
	InternshipTitle    string            `json:"internshipTitle"`
	InternshipLocation string            `json:"internshipLocation"`
}

// ApplicationFilter holds the employer's exact-match filters. Empty fields do not restrict.
type ApplicationFilter struct {
	ApplicantName   string
	InternshipTitle string
	Status          string
}

// ApplicationFilterOptions are the distinct values offered by the manage filters
type ApplicationFilterOptions struct {
	ApplicantNames   []string            `json:"applicantNames"`
	InternshipTitles []string            `json:"internshipTitles"`
	Statuses         []ApplicationStatus `json:"statuses"`
}

// StatusCount is a per-status application tally
type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int               `json:"count"`
}
