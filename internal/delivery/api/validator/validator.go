// Package validator adapts go-playground/validator to echo.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New returns the echo validator.
func New() *Validator {
	return &Validator{validate: NewValidate()}
}

// Validate validates a bound request struct.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// NewValidate returns a validator that reports fields by their JSON names.
func NewValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Message turns validation errors into one user-facing sentence.
func Message(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return "Invalid input"
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email address")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}

	return strings.Join(parts, "; ")
}
