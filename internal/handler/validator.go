package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/roster"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// GetValidator returns the shared validator with the custom tags registered
func GetValidator() *Validator {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("lodestone", validateLodestoneID)
		_ = v.RegisterValidation("kind", validateKind)
		validate = &Validator{validate: v}
	})
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by lowercased field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "lodestone":
			errs[field] = "Must be a numeric Lodestone ID"
		case "kind":
			errs[field] = "Must be mounts or minions"
		case "max":
			errs[field] = fmt.Sprintf("Must have at most %s entries", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must have at least %s entries", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateLodestoneID(fl validator.FieldLevel) bool {
	return roster.ValidLodestoneID(fl.Field().String())
}

func validateKind(fl validator.FieldLevel) bool {
	_, err := domain.ParseCollectibleKind(fl.Field().String())
	return err == nil
}
