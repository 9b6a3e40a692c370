package engine

import (
	"errors"
	"fmt"
)

// Kind categorizes engine errors so callers and tests can discriminate
// causes without string matching.
type Kind string

// Error kinds surfaced by engine operations. Every error aborts the whole
// call with no partial state mutation.
const (
	// KindAlreadyInitialized: init called after a successful init.
	KindAlreadyInitialized Kind = "ALREADY_INITIALIZED"

	// KindNotInitialized: operation requires the one-time init first.
	KindNotInitialized Kind = "NOT_INITIALIZED"

	// KindUnauthorized: caller lacks the capability for the operation.
	KindUnauthorized Kind = "UNAUTHORIZED"

	// KindInvalidParameters: malformed or inconsistent creation arguments.
	KindInvalidParameters Kind = "INVALID_PARAMETERS"

	// KindInsufficientFunds: the token service rejected a transfer.
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"

	// KindStreamNotFound: no stream exists with the given id.
	KindStreamNotFound Kind = "STREAM_NOT_FOUND"

	// KindInvalidStateTransition: the stream's status does not permit the
	// operation (e.g. withdraw while paused, resume while active).
	KindInvalidStateTransition Kind = "INVALID_STATE_TRANSITION"

	// KindNothingToWithdraw: withdraw called with zero withdrawable balance.
	KindNothingToWithdraw Kind = "NOTHING_TO_WITHDRAW"

	// KindArithmeticOverflow: accrual or settlement arithmetic would
	// overflow the fixed-point representation.
	KindArithmeticOverflow Kind = "ARITHMETIC_OVERFLOW"
)

// Error is the engine's typed error. Op names the failing operation;
// Err optionally wraps the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or "" when err is not an engine Error.
// Uses errors.As to handle wrapping.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

func errf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}
