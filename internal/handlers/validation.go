package handlers

import (
	"fmt"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// emailfmt applies the exact grammar the client masks use; the
	// builtin "email" tag accepts more than the store should.
	_ = v.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
		return models.ValidEmail(fl.Field().String())
	})

	// nationalid accepts a 10-digit RUC or a 13-digit CI.
	_ = v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return models.ValidNationalID(fl.Field().String())
	})

	return v
}

// ValidateRequest validates a request struct and returns the first
// failure as a user-friendly message.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return fmt.Errorf("validation failed: %s: %s", ve[0].Field(), formatValidationError(ve[0]))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "emailfmt":
		return "must be a valid email address"
	case "nationalid":
		return "must be 10 or 13 digits"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
