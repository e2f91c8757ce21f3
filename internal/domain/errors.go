package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidOrderID  = errors.New("invalid order id")
	ErrUndoExpired     = errors.New("undo window has expired")
	ErrUndoUnavailable = errors.New("undo is only available for completed or cancelled orders")
)

// ValidationError names the first field that failed input validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TerminalStateError rejects mutations of an order that already reached
// completed or cancelled.
type TerminalStateError struct {
	Status OrderStatus
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order is %s and can no longer be modified", e.Status)
}
