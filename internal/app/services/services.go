package services

import (
	"context"

	appauth "github.com/internlink/internlink/internal/app/auth"
	"github.com/internlink/internlink/internal/app/repositories"
	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/session"
)

// Services defined in this package:
// - AuthService: signup, login, logout, password changes and session validation
// - ProfileService: profile view and edit with file management
// - StudentService: internship browsing and applications
// - EmployerService: posted internships and application review
// - AdminService: user listing and account status

// Transactor runs fn inside a database transaction carried by ctx
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dependencies groups everything the services are built from
type Dependencies struct {
	Repos        *repositories.Repositories
	Tx           Transactor
	Storage      filestorage.FileStorage
	Hasher       auth.PasswordHasher
	JWT          *auth.JWTService
	SessionStore *session.Store
}

// Services holds all the service instances
type Services struct {
	AuthService     AuthService
	ProfileService  ProfileService
	StudentService  StudentService
	EmployerService EmployerService
	AdminService    AdminService
}

// NewServices wires every service against the shared dependencies
func NewServices(deps Dependencies) *Services {
	r := deps.Repos
	authz := appauth.NewAuthorizationService(r.EmployerRepository, r.ApplicationRepository)

	return &Services{
		AuthService: NewAuthService(r.UserRepository, r.StudentRepository, deps.Tx,
			deps.Storage, deps.Hasher, deps.JWT, deps.SessionStore),
		ProfileService: NewProfileService(r.UserRepository, r.StudentRepository, r.EmployerRepository,
			deps.Tx, deps.Storage, authz),
		StudentService: NewStudentService(r.UserRepository, r.StudentRepository, r.InternshipRepository,
			r.ApplicationRepository, deps.Tx, deps.Storage),
		EmployerService: NewEmployerService(r.EmployerRepository, r.InternshipRepository,
			r.ApplicationRepository, authz),
		AdminService: NewAdminService(r.UserRepository),
	}
}
