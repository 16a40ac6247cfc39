package policy

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific policy field.
type FieldError struct {
	// Field is the policy option name (e.g., "max_ai_assistance_level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a policy.
// This is the one error class that aborts pipeline processing: evaluating
// against a misconfigured policy would produce meaningless verdicts.
type ValidationError struct {
	// Errors contains all validation errors found in the policy.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "policy validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("policy validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("policy validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the policy for misconfiguration. All errors are collected
// and returned together as a ValidationError; nil means the policy is valid.
func Validate(p *Policy) error {
	if p == nil {
		return ValidationError{Errors: []FieldError{{
			Field:   "policy",
			Message: "policy cannot be nil",
		}}}
	}

	var errs []FieldError

	if p.MaxAIAssistanceLevel < 0 || p.MaxAIAssistanceLevel > 1 {
		errs = append(errs, FieldError{
			Field:   "max_ai_assistance_level",
			Message: fmt.Sprintf("must be in [0, 1], got %g", p.MaxAIAssistanceLevel),
		})
	}

	if p.MaxCopyPasteChars < 0 {
		errs = append(errs, FieldError{
			Field:   "max_copy_paste_chars",
			Message: fmt.Sprintf("must not be negative, got %d", p.MaxCopyPasteChars),
		})
	}

	if p.MinTypingSpeedThreshold < 0 {
		errs = append(errs, FieldError{
			Field:   "min_typing_speed_threshold_chars_per_sec",
			Message: fmt.Sprintf("must not be negative, got %g", p.MinTypingSpeedThreshold),
		})
	}

	if p.MaxSessionHours < 0 {
		errs = append(errs, FieldError{
			Field:   "max_session_hours",
			Message: fmt.Sprintf("must not be negative, got %g", p.MaxSessionHours),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}
