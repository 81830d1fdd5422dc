package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/internlink/internlink/internal/app/models/dto"
	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/logger"
)

// MsgInternalError is shown for any failure not caused by the request
const MsgInternalError = "An unexpected error occurred. Please try again later."

type errorClass struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorClasses is checked in order; the first match decides the response
var errorClasses = []errorClass{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Please correct the highlighted fields."},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Invalid request."},
	{apperrors.ErrSelfDeactivation, http.StatusBadRequest, dto.ErrorCodeBadRequest, "You cannot deactivate your own admin account."},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password."},
	{apperrors.ErrNotAuthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required."},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid session."},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Session has ended."},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountInactive, "Your account is inactive."},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied."},
	{apperrors.ErrUnauthorizedProfile, http.StatusForbidden, dto.ErrorCodeForbidden, "You are not authorized to view this profile."},
	{apperrors.ErrUnauthorizedApplication, http.StatusForbidden, dto.ErrorCodeForbidden, "You are not authorized to manage this application."},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found."},
	{apperrors.ErrAlreadyApplied, http.StatusConflict, dto.ErrorCodeConflict, "You have already applied for this internship."},
	{apperrors.ErrIncompleteProfile, http.StatusConflict, dto.ErrorCodeConflict, "Your profile is incomplete."},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict."},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyAttempts, "Too many failed login attempts. Please try again later."},
}

// ErrorStatus returns the HTTP status HandleAPIError would use for err
func ErrorStatus(err error) int {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class.status
		}
	}
	return http.StatusInternalServerError
}

// HandleAPIError writes the error envelope for err. Client errors carry their
// own message and field information; anything unrecognised is logged and
// reported generically.
func HandleAPIError(c *gin.Context, err error) {
	for _, class := range errorClasses {
		if !errors.Is(err, class.target) {
			continue
		}

		detail := dto.NewErrorDetail(class.code, class.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			detail.Message = custom.Error()
			if custom.Field != "" {
				detail = detail.WithField(custom.Field)
			}
			if custom.Details != nil {
				detail = detail.WithDetails(custom.Details)
			}
		}
		if ve, ok := apperrors.AsValidationError(err); ok {
			if len(ve.Fields) == 1 {
				for field, msg := range ve.Fields {
					detail = detail.WithField(field)
					detail.Message = msg
				}
			}
			detail = detail.WithDetails(ve.Fields)
		}
		if class.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}

		c.AbortWithStatusJSON(class.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, MsgInternalError)))
}

// Recovery turns panics into the generic error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, MsgInternalError)))
	})
}
