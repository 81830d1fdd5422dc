// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/middleware"
	"github.com/internlink/internlink/internal/pkg/apperrors"
)

// parseIDParam parses a positive numeric path parameter
func parseIDParam(ctx *gin.Context, paramName, label string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid " + label + " ID.")
	}
	return id, nil
}

// formFile returns the uploaded file of field, or nil when the request
// carried none
func formFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError("Could not read uploaded file.")
	}
	return fh, nil
}

// formFiles reads several optional uploads into their destinations
func formFiles(ctx *gin.Context, files map[string]**multipart.FileHeader) error {
	for field, dst := range files {
		fh, err := formFile(ctx, field)
		if err != nil {
			return err
		}
		*dst = fh
	}
	return nil
}

// principal returns the signed-in user; routes using it sit behind a role guard
func principal(ctx *gin.Context) models.Principal {
	p, _ := middleware.CurrentPrincipal(ctx)
	return p
}

func principalView(p models.Principal) dto.PrincipalView {
	return dto.PrincipalView{UserID: p.UserID, Username: p.Username, Role: string(p.Role)}
}

func respondOK(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, message))
}
