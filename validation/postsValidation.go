package validation

import (
	"errors"
	"fmt"
	"posts-app/models"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MissingFieldsMessage is what the form shows when a required field is empty.
const MissingFieldsMessage = "Please fill in all fields"

// ValidationError represents custom validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation errors: " + strings.Join(e.Errors, ", ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidatePost checks that name and email are both present after trimming.
func ValidatePost(fields models.PostFields) error {
	fields.Name = SanitizeInput(fields.Name)
	fields.Email = SanitizeInput(fields.Email)

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var validationErrors []string
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &ValidationError{Errors: validationErrors}
}

// SanitizeInput trims surrounding whitespace and drops control characters.
func SanitizeInput(input string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input))
}
