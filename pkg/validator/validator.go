package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the langcode tag registered
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return entities.IsValidLanguageCode(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
