package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks request DTO shape before any domain logic runs. Field names
// in error details follow the json tags so callers see the keys they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationDetails(err error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return map[string]string{"body": "invalid request"}
	}

	details := make(map[string]string, len(vErrs))
	for _, fieldErr := range vErrs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return details
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must be a valid HH:MM time"
	case "gte":
		return "must be at least " + fieldErr.Param()
	case "min":
		return "must have at least " + fieldErr.Param() + " entries"
	default:
		return "is invalid"
	}
}
