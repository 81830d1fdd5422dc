package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/internlink/internlink/internal/pkg/apperrors"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(formFieldName)
	}
}

// formFieldName reports fields by their form key so binding errors line up
// with the field errors produced by the services
func formFieldName(field reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// fieldLabel turns a form key into the label used in messages
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	label := fieldLabel(e.Field())
	switch e.Tag() {
	case "required":
		return label + " is required."
	case "min":
		return fmt.Sprintf("%s must be at least %s.", label, e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters.", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, e.Param())
	case "oneof":
		return "Please select a valid " + strings.ToLower(label) + "."
	case "datetime":
		return label + " must be a date in YYYY-MM-DD format."
	default:
		return label + " is invalid."
	}
}

// BindingErrors converts an error from gin's ShouldBind* into an application
// error: validator failures become field errors, anything else (malformed
// numbers, unreadable bodies) a bad request.
func BindingErrors(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := apperrors.FieldErrors{}
		for _, fe := range verrs {
			fields.Add(fe.Field(), formatFieldError(fe))
		}
		return fields.Err()
	}

	return apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid request format.").
		WithDetails(map[string]interface{}{"reason": err.Error()})
}
