package statement

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a pipeline failure class. Callers render each kind
// distinctly; a wrong bank selection must never be reported as a corrupt
// statement.
type ErrorKind string

const (
	ErrDecryption          ErrorKind = "DECRYPTION_FAILED"
	ErrExtraction          ErrorKind = "EXTRACTION_FAILED"
	ErrUnknownBank         ErrorKind = "UNKNOWN_BANK"
	ErrUnrecognizedFormat  ErrorKind = "UNRECOGNIZED_FORMAT"
	ErrBankFormatMismatch  ErrorKind = "BANK_FORMAT_MISMATCH"
	ErrMalformedRow        ErrorKind = "MALFORMED_ROW"
	ErrInvalidHorizon      ErrorKind = "INVALID_HORIZON"
	ErrInsufficientHistory ErrorKind = "INSUFFICIENT_HISTORY"
	ErrNoForecast          ErrorKind = "NO_FORECAST"
)

// Error is a structured pipeline error. Every stage either returns a fully
// valid result or one of these; nothing is retried internally.
type Error struct {
	Kind    ErrorKind
	Message string
	Row     int // offending raw-table row for ErrMalformedRow, -1 otherwise
	Cause   error
}

func (e *Error) Error() string {
	if e.Kind == ErrMalformedRow {
		if e.Cause != nil {
			return fmt.Sprintf("[%s] row %d: %s: %v", e.Kind, e.Row, e.Message, e.Cause)
		}
		return fmt.Sprintf("[%s] row %d: %s", e.Kind, e.Row, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf builds an Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Row: -1}
}

// WrapError builds an Error around an underlying cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Row: -1, Cause: cause}
}

// RowErrorf builds a malformed-row Error carrying the offending row index.
func RowErrorf(row int, format string, args ...any) *Error {
	return &Error{Kind: ErrMalformedRow, Message: fmt.Sprintf(format, args...), Row: row}
}

// KindOf extracts the ErrorKind from err, or "" if err is not a pipeline
// error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err is a pipeline error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
