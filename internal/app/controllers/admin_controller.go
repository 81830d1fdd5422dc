package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/middleware"
)

// AdminController serves user administration
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// Home returns user counts
func (c *AdminController) Home(ctx *gin.Context) {
	view, err := c.adminService.Home(ctx.Request.Context(), principal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// ListUsers lists users matching the query filters
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var query dto.ListUsersQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	view, err := c.adminService.ListUsers(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// ChangeUserStatus activates or deactivates an account
func (c *AdminController) ChangeUserStatus(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "id", "user")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ChangeUserStatusRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	message, err := c.adminService.ChangeUserStatus(ctx.Request.Context(), principal(ctx), userID, models.UserStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.RedirectView{RedirectTo: "/admin/users"}, message)
}
