// File: internal/category/validation.go
package category

import (
	"github.com/go-playground/validator/v10"
)

// ValidationTag is the binding tag that checks a value is a category display name.
const ValidationTag = "category"

// RegisterValidation installs the category tag on v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(ValidationTag, func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	})
}
