package domain

import "time"

// UndoWindow bounds how long a terminal transition can be reversed.
const UndoWindow = 5 * time.Minute

// ApplyTransition returns a copy of o moved to next, with the derived
// timestamp fields recomputed. The input order is never mutated.
//
// Any non-terminal order may move to any valid status. Once an order is
// completed or cancelled only ApplyUndo can move it again.
func ApplyTransition(o Order, next OrderStatus, now time.Time) (Order, error) {
	if !next.IsValid() {
		return Order{}, NewValidationError("status", "is not a recognized order status")
	}
	if o.Status.IsTerminal() {
		return Order{}, &TerminalStateError{Status: o.Status}
	}

	out := o
	out.Status = next
	switch next {
	case StatusCompleted:
		t := now
		exp := now.Add(UndoWindow)
		out.CompletedAt = &t
		out.CancelledAt = nil
		out.UndoExpiresAt = &exp
	case StatusCancelled:
		t := now
		exp := now.Add(UndoWindow)
		out.CancelledAt = &t
		out.CompletedAt = nil
		out.UndoExpiresAt = &exp
	default:
		out.CompletedAt = nil
		out.CancelledAt = nil
		out.UndoExpiresAt = nil
	}
	return out, nil
}

// ApplyUndo reverses a terminal transition while the undo window is open.
// A completed order returns to processing, a cancelled one to pending.
func ApplyUndo(o Order, now time.Time) (Order, error) {
	if !o.Status.IsTerminal() {
		return Order{}, ErrUndoUnavailable
	}
	if o.UndoExpiresAt == nil || now.After(*o.UndoExpiresAt) {
		return Order{}, ErrUndoExpired
	}

	out := o
	switch o.Status {
	case StatusCompleted:
		out.Status = StatusProcessing
		out.CompletedAt = nil
	case StatusCancelled:
		out.Status = StatusPending
		out.CancelledAt = nil
	}
	out.UndoExpiresAt = nil
	return out, nil
}
