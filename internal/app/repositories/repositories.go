package repositories

import (
	"context"

	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/repositories/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IUserRepository defines the users table operations
type IUserRepository interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateProfile(ctx context.Context, id int64, fullName string, email *string, profileImage *string) error
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	CountByRoleAndStatus(ctx context.Context) ([]models.UserCount, error)
}

// IStudentRepository defines the student table operations
type IStudentRepository interface {
	Create(ctx context.Context, s *models.Student) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	UpdateResume(ctx context.Context, studentID int64, resumePath *string) error
}

// IEmployerRepository defines the employer table operations
type IEmployerRepository interface {
	Create(ctx context.Context, e *models.Employer) (int64, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Employer, error)
	Update(ctx context.Context, e *models.Employer) error
}

// IInternshipRepository defines the internship table operations
type IInternshipRepository interface {
	Create(ctx context.Context, in *models.Internship) (int64, error)
	GetDetail(ctx context.Context, id int64) (*models.InternshipDetail, error)
	ListOpen(ctx context.Context, filter models.InternshipFilter) ([]*models.InternshipDetail, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*models.PostedInternship, error)
}

// IApplicationRepository defines the application table operations
type IApplicationRepository interface {
	Exists(ctx context.Context, studentID, internshipID int64) (bool, error)
	Create(ctx context.Context, a *models.Application) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentApplication, error)
	CountByStudentStatus(ctx context.Context, studentID int64) ([]models.StatusCount, error)
	CountByCompanyStatus(ctx context.Context, companyID int64) ([]models.StatusCount, error)
	ListForCompany(ctx context.Context, companyID int64, filter models.ApplicationFilter) ([]*models.ManagedApplication, error)
	ApplicantNames(ctx context.Context, companyID int64) ([]string, error)
	InternshipTitles(ctx context.Context, companyID int64) ([]string, error)
	GetCompanyID(ctx context.Context, studentID, internshipID int64) (int64, error)
	UpdateStatus(ctx context.Context, studentID, internshipID int64, status models.ApplicationStatus, feedback *string) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *user.Repository
	StudentRepository     *user.StudentRepository
	EmployerRepository    *user.EmployerRepository
	InternshipRepository  *InternshipRepository
	ApplicationRepository *ApplicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        user.NewRepository(db),
		StudentRepository:     user.NewStudentRepository(db),
		EmployerRepository:    user.NewEmployerRepository(db),
		InternshipRepository:  NewInternshipRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
	}
}

var (
	_ IUserRepository        = (*user.Repository)(nil)
	_ IStudentRepository     = (*user.StudentRepository)(nil)
	_ IEmployerRepository    = (*user.EmployerRepository)(nil)
	_ IInternshipRepository  = (*InternshipRepository)(nil)
	_ IApplicationRepository = (*ApplicationRepository)(nil)
)
