package planner

import "github.com/go-errors/errors"

// errorCode is used to represent the various errors that can occur within this
// package.
type errorCode uint8

const (
	// ErrInvalidPathID is returned when a hop references a path id that
	// lies outside of the dense range of paths being planned.
	ErrInvalidPathID errorCode = iota

	// ErrSecretLengthMismatch is returned when the payment secret handed
	// to the planner isn't exactly 32 bytes, but a multi-path record has
	// to be built for the final hop.
	ErrSecretLengthMismatch

	// ErrArithmeticOverflow is returned when accumulating fees or
	// time-lock deltas would overflow the amount or expiry of an HTLC.
	ErrArithmeticOverflow

	// ErrInvalidPaymentContext is returned when the payment context can't
	// be used to plan a payment, e.g. because the amount is zero.
	ErrInvalidPaymentContext
)

// String returns a human readable name of the error code.
func (c errorCode) String() string {
	switch c {
	case ErrInvalidPathID:
		return "InvalidPathID"
	case ErrSecretLengthMismatch:
		return "SecretLengthMismatch"
	case ErrArithmeticOverflow:
		return "ArithmeticOverflow"
	case ErrInvalidPaymentContext:
		return "InvalidPaymentContext"
	default:
		return "Unknown"
	}
}

// planError is a structure that represents an error inside the planner
// package. It carries an error code so callers outside of the package are
// able to distinguish the failure kinds.
type planError struct {
	err  *errors.Error
	code errorCode
}

// Error represents errors as the string
// NOTE: Part of the error interface.
func (e *planError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error, if any.
func (e *planError) Unwrap() error {
	return e.err.Err
}

// A compile time check to ensure planError implements the error interface.
var _ error = (*planError)(nil)

// newErrf creates a planError by the given error formatted description and
// its corresponding error code.
func newErrf(code errorCode, format string, a ...interface{}) *planError {
	return &planError{
		code: code,
		err:  errors.Errorf(format, a...),
	}
}

// wrapErr wraps an error returned by another package into a planError with
// the given code.
func wrapErr(code errorCode, err error) *planError {
	return &planError{
		code: code,
		err:  errors.Wrap(err, 1),
	}
}

// IsError is a helper function which is needed to have ability to check that
// returned error has specific error code.
func IsError(e interface{}, codes ...errorCode) bool {
	err, ok := e.(*planError)
	if !ok {
		return false
	}

	for _, code := range codes {
		if err.code == code {
			return true
		}
	}

	return false
}
