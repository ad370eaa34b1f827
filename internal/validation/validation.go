package validation

import (
	"fmt"
	"regexp"
	"strings"

	"quizdrill/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateConfidence checks that a confidence value is one of low, medium, high.
// The scheduler assumes pre-validated input, so this runs at the API boundary.
func ValidateConfidence(confidence string) error {
	switch models.Confidence(confidence) {
	case models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
		return nil
	}
	return ValidationError{Field: "confidence", Message: "confidence must be low, medium or high"}
}

// ValidateTimeSpent checks that a per-answer timing is non-negative
func ValidateTimeSpent(timeSpentMs int) error {
	if timeSpentMs < 0 {
		return ValidationError{Field: "timeSpentMs", Message: "timeSpentMs must not be negative"}
	}
	return nil
}
