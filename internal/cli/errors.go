package cli

import (
	"errors"
	"fmt"
)

// FailureKind is a stable code for why the command line was rejected
type FailureKind string

const (
	// ArgumentCount indicates the positional argument count was not exactly one
	ArgumentCount FailureKind = "ARGUMENT_COUNT"
	// MissingOption indicates a required option was not supplied
	MissingOption FailureKind = "MISSING_OPTION"
	// UnknownOption indicates an option outside the schema
	UnknownOption FailureKind = "UNKNOWN_OPTION"
	// InvalidValue indicates an option value violating its constraints
	InvalidValue FailureKind = "INVALID_VALUE"
)

// ErrHelpRequested is returned by Parse when --help was given
var ErrHelpRequested = errors.New("help requested")

// ParseFailure reports malformed or incomplete command-line input
type ParseFailure struct {
	Kind    FailureKind
	Message string
	cause   error
}

func newParseFailure(kind FailureKind, message string, cause error) *ParseFailure {
	return &ParseFailure{Kind: kind, Message: message, cause: cause}
}

// Error implements the error interface
func (e *ParseFailure) Error() string {
	if e.cause != nil && e.cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *ParseFailure) Unwrap() error {
	return e.cause
}

// AnalysisFailure wraps anything that went wrong once a valid Configuration existed
type AnalysisFailure struct {
	State State
	cause error
}

// Error implements the error interface
func (e *AnalysisFailure) Error() string {
	return fmt.Sprintf("analysis failed while %s: %v", e.State, e.cause)
}

// Unwrap returns the underlying error
func (e *AnalysisFailure) Unwrap() error {
	return e.cause
}
