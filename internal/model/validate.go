package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes the first field that failed validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", strings.ToLower(e.Field), e.Reason)
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
}

// Validate checks a task against the rules every stored task obeys: non-blank
// text, known category and priority, an id and a creation time.
func (t Task) Validate() error {
	return validateStruct(t)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:  fe.Field(),
		Reason: reasonFor(fe),
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be empty"
	case "category":
		return fmt.Sprintf("unknown category %q", fe.Value())
	case "priority":
		return fmt.Sprintf("unknown priority %q", fe.Value())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
