package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during program execution.
//
// Runtime errors include:
//   - Invalid program: the program failed IR validation
//   - Unknown op: a step op is not one of append/sort/render/sum
//   - Journal write: the op journal rejected a record
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Program identifies the affected program.
	Program string

	// Seq identifies the step's logical clock value, when applicable.
	Seq int64

	// Err is the underlying cause, when applicable.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidProgram indicates the program failed IR validation.
	ErrCodeInvalidProgram RuntimeErrorCode = "INVALID_PROGRAM"

	// ErrCodeUnknownOp indicates a step op has no executor.
	ErrCodeUnknownOp RuntimeErrorCode = "UNKNOWN_OP"

	// ErrCodeJournalWrite indicates the op journal rejected a record.
	ErrCodeJournalWrite RuntimeErrorCode = "JOURNAL_WRITE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Program != "" && e.Seq > 0 {
		return fmt.Sprintf("%s: %s (program=%s, seq=%d)", e.Code, e.Message, e.Program, e.Seq)
	}
	if e.Program != "" {
		return fmt.Sprintf("%s: %s (program=%s)", e.Code, e.Message, e.Program)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsInvalidProgram returns true if the error is a program validation error.
// Uses errors.As to handle wrapped errors.
func IsInvalidProgram(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeInvalidProgram
}

// IsJournalWrite returns true if the error is a journal write failure.
func IsJournalWrite(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeJournalWrite
}
