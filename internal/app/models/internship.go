package models

import "time"

// Internship defines the 'internship' table
type Internship struct {
	ID              int64     `json:"internshipId" db:"internship_id"`
	CompanyID       int64     `json:"companyId" db:"company_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Location        string    `json:"location" db:"location"`
	Duration        string    `json:"duration" db:"duration"`
	SkillsRequired  *string   `json:"skillsRequired,omitempty" db:"skills_required"`
	Deadline        time.Time `json:"deadline" db:"deadline"`
	Stipend         *string   `json:"stipend,omitempty" db:"stipend"`
	NumberOfOpening int       `json:"numberOfOpening" db:"number_of_opening"`
}

// InternshipDetail is an internship joined with its employer's public fields
type InternshipDetail struct {
	Internship
	CompanyName        string  `json:"companyName"`
	CompanyDescription *string `json:"companyDescription,omitempty"`
	Website            *string `json:"website,omitempty"`
	LogoPath           *string `json:"logoPath,omitempty"`
}

// PostedInternship is an employer's internship with its application count
type PostedInternship struct {
	Internship
	ApplicationCount int `json:"applicationCount"`
}

// InternshipFilter holds browse filters. Empty fields do not restrict.
type InternshipFilter struct {
	Category string
	Location string
	Duration string
	Stipend  string
}

// InternshipFilterOptions are the distinct values offered by the browse filters
type InternshipFilterOptions struct {
	Categories []string `json:"categories"`
	Locations  []string `json:"locations"`
	Durations  []string `json:"durations"`
	Stipends   []string `json:"stipends"`
}
