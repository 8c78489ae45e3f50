// Package errors provides custom error types for the attendmerge system.
// These errors enable programmatic error checking across the reconciliation
// pipeline and let callers surface one descriptive message per failed run.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers only need one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the attendmerge system
var (
	// ErrMalformedWorkbook indicates a workbook lacks its header row or required columns
	ErrMalformedWorkbook = errors.New("malformed workbook")

	// ErrDateParse indicates a date cell could not be parsed
	ErrDateParse = errors.New("unparseable date")

	// ErrEmptyInput indicates an input table has no data rows
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates an input file type the loader cannot read
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// MalformedWorkbookError is returned by the loader when the expected header
// row is absent or the minimum required columns are missing.
type MalformedWorkbookError struct {
	Source    string   // "presence" or "ledger"
	Sheet     string   // sheet name, if known
	HeaderRow int      // 0-based header row offset that was expected
	Missing   []string // required column names that were not found
	Message   string
}

// Error implements the error interface
func (e *MalformedWorkbookError) Error() string {
	where := e.Source
	if e.Sheet != "" {
		where = fmt.Sprintf("%s (sheet %q)", e.Source, e.Sheet)
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("malformed %s workbook: missing required columns %s in header row %d",
			where, strings.Join(e.Missing, ", "), e.HeaderRow)
	}
	return fmt.Sprintf("malformed %s workbook: %s", where, e.Message)
}

// Is implements errors.Is support
func (e *MalformedWorkbookError) Is(target error) bool {
	return target == ErrMalformedWorkbook
}

// NewMalformedWorkbookError creates a new MalformedWorkbookError
func NewMalformedWorkbookError(source, sheet string, headerRow int, missing []string, message string) *MalformedWorkbookError {
	return &MalformedWorkbookError{
		Source:    source,
		Sheet:     sheet,
		HeaderRow: headerRow,
		Missing:   missing,
		Message:   message,
	}
}

// DateParseError records a date cell that could not be parsed. It is recovered
// locally by dropping (or keeping, per policy) the owning row and is never fatal.
type DateParseError struct {
	Source string `json:"source" yaml:"source"`
	Row    int    `json:"row" yaml:"row"` // 1-based spreadsheet row number
	Value  string `json:"value" yaml:"value"`
}

// Error implements the error interface
func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s row %d: cannot parse date %q", e.Source, e.Row, e.Value)
}

// Is implements errors.Is support
func (e *DateParseError) Is(target error) bool {
	return target == ErrDateParse
}

// NewDateParseError creates a new DateParseError
func NewDateParseError(source string, row int, value string) *DateParseError {
	return &DateParseError{Source: source, Row: row, Value: value}
}

// EmptyInputError reports that an input has zero data rows after normalization.
// The run continues and the output equals the ledger unchanged.
type EmptyInputError struct {
	Source string
}

// Error implements the error interface
func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s has no data rows", e.Source)
}

// Is implements errors.Is support
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// NewEmptyInputError creates a new EmptyInputError
func NewEmptyInputError(source string) *EmptyInputError {
	return &EmptyInputError{Source: source}
}

// StageError marks the pipeline stage that aborted a run.
type StageError struct {
	Stage string // "load", "normalize", "resolve", "diff", "filter", "merge", "write"
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("configuration error: %s", e.Message)
	if e.Component != "" {
		msg = fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsMalformedWorkbook checks if an error is a malformed workbook error
func IsMalformedWorkbook(err error) bool {
	return errors.Is(err, ErrMalformedWorkbook)
}

// IsDateParse checks if an error is a date parse error
func IsDateParse(err error) bool {
	return errors.Is(err, ErrDateParse)
}

// IsEmptyInput checks if an error is an empty input error
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapStage wraps an error as a StageError, leaving existing stage errors intact
func WrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return NewStageError(stage, err)
}
