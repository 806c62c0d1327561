package common

import (
	"fmt"
	"net/http"
)

// Kind classifies a FieldError.
type Kind int

const (
	// KindValidation marks client data that violates a rule.
	KindValidation Kind = iota
	// KindAuth marks a credential failure.
	KindAuth
	// KindNotFound marks a lookup of a missing record.
	KindNotFound
	// KindServer marks a failure the client cannot fix.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// FieldError is the structured rejection returned by account workflow
// operations. Field names the offending request field, or FieldNone.
// Err, when set, is the underlying cause and is never shown to clients.
type FieldError struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

// NewValidationError returns a KindValidation error for field.
func NewValidationError(field, message string) *FieldError {
	return &FieldError{Kind: KindValidation, Field: field, Message: message}
}

// NewAuthError returns a KindAuth error for field.
func NewAuthError(field, message string) *FieldError {
	return &FieldError{Kind: KindAuth, Field: field, Message: message}
}

// NewNotFoundError returns a KindNotFound error.
func NewNotFoundError(message string) *FieldError {
	return &FieldError{Kind: KindNotFound, Field: FieldNone, Message: message}
}

// NewServerError wraps cause into an opaque KindServer error.
func NewServerError(cause error) *FieldError {
	return &FieldError{Kind: KindServer, Field: FieldNone, Message: MsgServerUnableContinue, Err: cause}
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status equivalent of the error kind.
func (e *FieldError) StatusCode() int {
	if e.Kind == KindServer {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// StatusText returns the status string placed into response payloads.
func (e *FieldError) StatusText() string {
	if e.Kind == KindServer {
		return StatusServerError
	}
	return StatusBadRequest
}
