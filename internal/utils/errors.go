package utils

import (
	"fmt"
	"strings"
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	var messages []string
	for field, msg := range e.Fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(messages, "; ")
}

// AuthError covers missing/invalid/expired sessions and bad login
// credentials. The message stays generic so callers cannot tell which of
// email or password was wrong.
type AuthError struct {
	Message string
}

func NewAuthError(message string) *AuthError { return &AuthError{Message: message} }

func (e *AuthError) Error() string { return e.Message }

// ForbiddenError means the caller is authenticated but not permitted.
type ForbiddenError struct {
	Message string
}

func NewForbiddenError(message string) *ForbiddenError { return &ForbiddenError{Message: message} }

func (e *ForbiddenError) Error() string { return e.Message }

// SelfActionError is raised when an admin targets their own account.
type SelfActionError struct {
	Action string
}

func NewSelfActionError(action string) *SelfActionError { return &SelfActionError{Action: action} }

func (e *SelfActionError) Error() string {
	return fmt.Sprintf("cannot %s your own account", e.Action)
}

// InsufficientClearanceError is raised when an admin targets another admin
// of equal or higher clearance level.
type InsufficientClearanceError struct {
	Action string
}

func NewInsufficientClearanceError(action string) *InsufficientClearanceError {
	return &InsufficientClearanceError{Action: action}
}

func (e *InsufficientClearanceError) Error() string {
	return fmt.Sprintf("cannot %s admin accounts with equal or higher clearance level", e.Action)
}

// NotFoundError means a referenced entity id does not resolve.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError { return &NotFoundError{Resource: resource} }

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// DuplicateError is a unique constraint violation.
type DuplicateError struct {
	Message string
}

func NewDuplicateError(message string) *DuplicateError { return &DuplicateError{Message: message} }

func (e *DuplicateError) Error() string { return e.Message }
