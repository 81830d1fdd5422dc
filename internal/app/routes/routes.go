package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/controllers"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	Student  *controllers.StudentController
	Employer *controllers.EmployerController
	Admin    *controllers.AdminController
}

// SetupRouter configures all application routes. LoadSession must already be
// installed on router.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public routes ---
	router.GET("/", c.Auth.Root)
	router.GET("/login", c.Auth.LoginForm)
	router.POST("/login", c.Auth.Login)
	router.GET("/signup", c.Auth.SignupForm)
	router.POST("/signup", c.Auth.Signup)
	router.GET("/logout", c.Auth.Logout)

	// --- Any signed-in user ---
	account := router.Group("")
	account.Use(authMiddleware.RequireAuth())
	{
		account.GET("/profile", c.Profile.GetProfile)
		account.POST("/profile", c.Profile.UpdateProfile)
		account.GET("/profile/:id", c.Profile.GetProfile)
		account.POST("/profile/:id", c.Profile.UpdateProfile)
		account.GET("/change_password", c.Auth.ChangePasswordForm)
		account.POST("/change_password", c.Auth.ChangePassword)
	}

	// --- Student routes ---
	student := router.Group("")
	student.Use(authMiddleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/student/home", c.Student.Home)
		student.GET("/internships", c.Student.BrowseInternships)
		student.GET("/internship/:id", c.Student.GetInternship)
		student.GET("/internship/:id/apply", c.Student.ApplyForm)
		student.POST("/internship/:id/apply", c.Student.Apply)
		student.GET("/my_applications", c.Student.MyApplications)
	}

	// --- Employer routes ---
	employer := router.Group("/employer")
	employer.Use(authMiddleware.RequireRoles(models.RoleEmployer))
	{
		employer.GET("/home", c.Employer.Home)
		employer.GET("/internships", c.Employer.PostedInternships)
		employer.POST("/internships", c.Employer.CreateInternship)
		employer.GET("/applications", c.Employer.ManageApplications)
		employer.POST("/application/:student_id/:internship_id/update_status", c.Employer.UpdateApplicationStatus)
	}

	// --- Admin routes ---
	admin := router.Group("/admin")
	admin.Use(authMiddleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/home", c.Admin.Home)
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/users/:id/change_status", c.Admin.ChangeUserStatus)
	}
}
