package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	return validate.Struct(v)
}
