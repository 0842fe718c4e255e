package models

import "fmt"

// ValidationError reports missing or invalid input. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing user, post or session. Maps to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError reports an ownership mismatch. Maps to 403.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// InvalidStateError reports an operation not allowed in the entity's current
// state, e.g. cancelling a post whose publish time has passed. Maps to 400.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

// ExternalAPIError wraps a provider failure (Facebook, OpenAI) and carries
// the provider's own message. Maps to 500 unless the caller degrades
// gracefully.
type ExternalAPIError struct {
	Provider string
	Message  string
	Code     int
}

func (e *ExternalAPIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s API error: %s (code: %d)", e.Provider, e.Message, e.Code)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func NewExternalAPIError(provider, message string, code int) *ExternalAPIError {
	return &ExternalAPIError{Provider: provider, Message: message, Code: code}
}
