package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state transition")
)

// DomainError carries a kind (one of the sentinels above) and a user-facing message.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Unwrap exposes the kind so callers can use errors.Is.
func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s não encontrado: %s", entity, id)}
}

// NewConflictError reports a uniqueness or concurrency conflict.
func NewConflictError(message string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: message}
}

// NewValidationError reports invalid input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Err: ErrValidation, Message: message}
}

// NewForbiddenError reports an action the caller may not perform.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Err: ErrForbidden, Message: message}
}

// NewInvalidStateError reports an illegal state transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Err: ErrInvalidState, Message: fmt.Sprintf("transição inválida: %s -> %s", from, to)}
}
