package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/middleware"
)

// EmployerController serves the employer pages
type EmployerController struct {
	employerService services.EmployerService
}

// NewEmployerController creates a new EmployerController
func NewEmployerController(employerService services.EmployerService) *EmployerController {
	return &EmployerController{employerService: employerService}
}

// Home returns the employer dashboard
func (c *EmployerController) Home(ctx *gin.Context) {
	view, err := c.employerService.Home(ctx.Request.Context(), principal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// PostedInternships lists the company's internships
func (c *EmployerController) PostedInternships(ctx *gin.Context) {
	view, err := c.employerService.PostedInternships(ctx.Request.Context(), principal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// CreateInternship posts a new internship
func (c *EmployerController) CreateInternship(ctx *gin.Context) {
	var req dto.CreateInternshipRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	resp, err := c.employerService.CreateInternship(ctx.Request.Context(), principal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, resp.Message))
}

// ManageApplications lists applications to the company's internships
func (c *EmployerController) ManageApplications(ctx *gin.Context) {
	var query dto.ManageApplicationsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	view, err := c.employerService.ManageApplications(ctx.Request.Context(), principal(ctx), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// UpdateApplicationStatus sets the status and feedback of an application
func (c *EmployerController) UpdateApplicationStatus(ctx *gin.Context) {
	studentID, err := parseIDParam(ctx, "student_id", "student")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	internshipID, err := parseIDParam(ctx, "internship_id", "internship")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	if err := c.employerService.UpdateApplicationStatus(ctx.Request.Context(), principal(ctx), studentID, internshipID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.RedirectView{RedirectTo: "/employer/applications"}, services.MsgStatusUpdated)
}
