// Package validation checks request payloads against their `validate` struct tags
// and converts failures into field-level errors.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/go-playground/validator/v10"
)

// MaxPageSize is the largest page a list request may ask for.
const MaxPageSize = 100

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients can map errors back to the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates payload. It returns nil or an *errs.ValidationError.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &errs.ValidationError{Message: err.Error()}
	}

	fields := make([]errs.FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, errs.FieldError{
			Field: fieldPath(fieldErr),
			Error: message(fieldErr),
		})
	}

	return &errs.ValidationError{Message: "Validation failed", Fields: fields}
}

// Page checks list paging arguments. Both must be positive, pageSize is capped at MaxPageSize
// and the resulting offset must fit in an int.
func Page(page, pageSize int) error {
	var fields []errs.FieldError

	if page < 1 {
		fields = append(fields, errs.FieldError{Field: "page", Error: "must be a positive integer"})
	}

	switch {
	case pageSize < 1:
		fields = append(fields, errs.FieldError{Field: "pageSize", Error: "must be a positive integer"})
	case pageSize > MaxPageSize:
		fields = append(fields, errs.FieldError{
			Field: "pageSize",
			Error: fmt.Sprintf("must be at most %d", MaxPageSize),
		})
	case page > 1 && page-1 > math.MaxInt/pageSize:
		fields = append(fields, errs.FieldError{Field: "page", Error: "is out of range"})
	}

	if len(fields) > 0 {
		return errs.NewValidationError("Invalid pagination", fields...)
	}

	return nil
}

// fieldPath strips the root struct name: "CreateEmployeeInput.primaryContact.name" -> "primaryContact.name".
func fieldPath(fieldErr validator.FieldError) string {
	ns := fieldErr.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fieldErr.Field()
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
		}
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "email":
		return "must be a valid email address"
	default:
		if fieldErr.Param() != "" {
			return fmt.Sprintf("%s:%s", fieldErr.Tag(), fieldErr.Param())
		}
		return fieldErr.Tag()
	}
}
