package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("feature", validateFeature)
	_ = v.RegisterValidation("spawnkind", validateSpawnKind)
	_ = v.RegisterValidation("rarity", validateRarity)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by lowercased field name, without leaking struct names.
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
		case "latitude":
			errs[field] = "Must be a latitude between -90 and 90"
		case "longitude":
			errs[field] = "Must be a longitude between -180 and 180"
		case "feature":
			errs[field] = "Unknown feature"
		case "spawnkind":
			errs[field] = "Must be creature or egg"
		case "rarity":
			errs[field] = "Unknown rarity"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// foldID normalizes a client-supplied identifier for case-insensitive matching
func foldID(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// normalizeFeature maps "Tracker_Ping" and friends onto the canonical feature id
func normalizeFeature(s string) (domain.Feature, error) {
	return domain.ParseFeature(foldID(s))
}

func validateFeature(fl validator.FieldLevel) bool {
	_, err := normalizeFeature(fl.Field().String())
	return err == nil
}

func validateSpawnKind(fl validator.FieldLevel) bool {
	return domain.SpawnKind(foldID(fl.Field().String())).IsValid()
}

// Rarity ids are upper case, so fold then upper-case
func validateRarity(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	return domain.Rarity(strings.ToUpper(foldID(raw))).IsValid()
}
