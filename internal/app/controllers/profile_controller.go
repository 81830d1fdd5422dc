package controllers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/middleware"
)

// ProfileController handles profile viewing and editing
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// targetUserID reads the optional :id parameter; 0 means the caller
func targetUserID(ctx *gin.Context) (int64, error) {
	if ctx.Param("id") == "" {
		return 0, nil
	}
	return parseIDParam(ctx, "id", "user")
}

// GetProfile returns a profile with its role extension
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	target, err := targetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.profileService.GetProfile(ctx.Request.Context(), principal(ctx), target)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// UpdateProfile saves the caller's profile and uploads
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	target, err := targetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ProfileUpdateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}
	if err := formFiles(ctx, map[string]**multipart.FileHeader{
		"profile_image": &req.ProfileImage,
		"resume":        &req.Resume,
		"logo":          &req.Logo,
	}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.profileService.UpdateProfile(ctx.Request.Context(), principal(ctx), target, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, services.MsgProfileUpdated)
}
