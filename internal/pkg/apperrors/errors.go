package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTooManyRequests    = errors.New("too many requests")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Domain errors
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameTaken           = errors.New("username already exists")
	ErrStudentNotFound         = errors.New("student profile not found")
	ErrEmployerNotFound        = errors.New("employer profile not found")
	ErrInternshipNotFound      = errors.New("internship not found")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrAlreadyApplied          = errors.New("already applied for internship")
	ErrSelfDeactivation        = errors.New("cannot deactivate own admin account")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrStorageFailure          = errors.New("file storage failure")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrIncompleteProfile       = errors.New("incomplete profile")
	ErrUnauthorizedProfile     = errors.New("not authorized for profile")
	ErrUnauthorizedApplication = errors.New("not authorized for application")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithField names the form field the error refers to
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// FieldErrors maps a form field name to its user-facing message
type FieldErrors map[string]string

// Add records msg for field unless the field already failed an earlier rule
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Has reports whether field already carries an error
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Empty reports whether no field failed
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Err returns a *ValidationError when any field failed, nil otherwise
func (f FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError carries per-field messages. It unwraps to ErrValidationFailed.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewFieldError is a shortcut for a single failing field
func NewFieldError(field, msg string) error {
	return &ValidationError{Fields: FieldErrors{field: msg}}
}

// AsValidationError extracts a *ValidationError from err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
