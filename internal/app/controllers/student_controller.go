package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/middleware"
)

// StudentController serves the student pages
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Home returns the student dashboard
func (c *StudentController) Home(ctx *gin.Context) {
	view, err := c.studentService.Home(ctx.Request.Context(), principal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// BrowseInternships lists open internships matching the query filters
func (c *StudentController) BrowseInternships(ctx *gin.Context) {
	var query dto.BrowseInternshipsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}

	view, err := c.studentService.BrowseInternships(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// GetInternship returns one internship with its company
func (c *StudentController) GetInternship(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id", "internship")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.studentService.GetInternship(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// ApplyForm returns the data needed to render the application form
func (c *StudentController) ApplyForm(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id", "internship")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.studentService.GetApplyForm(ctx.Request.Context(), principal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}

// Apply submits an application
func (c *StudentController) Apply(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id", "internship")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ApplyRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingErrors(err))
		return
	}
	if req.Resume, err = formFile(ctx, "resume"); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.studentService.Apply(ctx.Request.Context(), principal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, resp.Message))
}

// MyApplications lists the student's applications
func (c *StudentController) MyApplications(ctx *gin.Context) {
	view, err := c.studentService.MyApplications(ctx.Request.Context(), principal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, view, "")
}
