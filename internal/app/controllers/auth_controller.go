package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/middleware"
	"github.com/rs/zerolog"
)

var (
	loginForm = dto.FormView{Form: "login", Fields: []string{"username", "password"}}

	signupForm = dto.FormView{Form: "signup", Fields: []string{
		"username", "email", "password", "confirm_password",
		"full_name", "university", "course", "profile_image", "resume",
	}}

	changePasswordForm = dto.FormView{Form: "change_password", Fields: []string{
		"current_password", "new_password", "confirm_new_password",
	}}
)

// CookieSettings controls the session cookie
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthController handles signup, login, logout and password changes
type AuthController struct {
	authService services.AuthService
	cookie      CookieSettings
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookie CookieSettings, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// redirectSignedIn sends a signed-in user to their home and reports whether it did
func redirectSignedIn(ctx *gin.Context) bool {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		return false
	}
	ctx.Redirect(http.StatusFound, p.Role.HomePath())
	return true
}

// Root redirects to the role home or the login page
func (c *AuthController) Root(ctx *gin.Context) {
	if redirectSignedIn(ctx) {
		return
	}
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}

// SignupForm describes the signup form
func (c *AuthController) SignupForm(ctx *gin.Context) {
	if redirectSignedIn(ctx) {
		return
	}
	respondOK(ctx, signupForm, "")
}

// Signup registers a new student account
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}
	if err := formFiles(ctx, map[string]**multipart.FileHeader{
		"profile_image": &req.ProfileImage,
		"resume":        &req.Resume,
	}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Signup rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, resp.Message))
}

// LoginForm describes the login form
func (c *AuthController) LoginForm(ctx *gin.Context) {
	if redirectSignedIn(ctx) {
		return
	}
	respondOK(ctx, loginForm, "")
}

// Login verifies credentials and starts a session
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	resp, issued, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, issued.Token, resp.ExpiresIn, "/", "", c.cookie.Secure, true)
	respondOK(ctx, resp, "")
}

// Logout ends the session. It always succeeds.
func (c *AuthController) Logout(ctx *gin.Context) {
	var current *models.Principal
	if p, ok := middleware.CurrentPrincipal(ctx); ok {
		current = &p
	}
	if err := c.authService.Logout(ctx.Request.Context(), current); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to revoke session")
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
	respondOK(ctx, dto.RedirectView{RedirectTo: middleware.LoginPath}, services.MsgLoggedOut)
}

// ChangePasswordForm describes the change password form
func (c *AuthController) ChangePasswordForm(ctx *gin.Context) {
	respondOK(ctx, changePasswordForm, "")
}

// ChangePassword updates the signed-in user's password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	p := principal(ctx)
	if err := c.authService.ChangePassword(ctx.Request.Context(), p, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", p.UserID).Msg("Password changed")
	respondOK(ctx, dto.RedirectView{RedirectTo: "/profile"}, services.MsgPasswordChanged)
}
