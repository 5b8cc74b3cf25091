package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrCycle           = errors.New("value contains a reference cycle")
	ErrNotParseable    = errors.New("value is not a parseable JSON string")
	ErrTooLarge        = errors.New("input exceeds the line limit")
	ErrNoOp            = errors.New("operation is not valid in the current state")
	ErrLayerNotFound   = errors.New("layer does not exist")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidPath     = errors.New("invalid document path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput        ErrorType = "input"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeCycle        ErrorType = "cycle"
	ErrorTypeNotParseable ErrorType = "not_parseable"
	ErrorTypeTooLarge     ErrorType = "too_large"
	ErrorTypeNoOp         ErrorType = "noop"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeOutput       ErrorType = "output"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// TypeOf returns the ErrorType of the first AppError in err's chain.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error for malformed JSON text
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewCycleError creates a new error for a self-referential container
func NewCycleError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeCycle,
		Message: message,
		Err:     ErrCycle,
	}
}

// NewNotParseableError creates a new error for a navigation target that cannot be opened
func NewNotParseableError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotParseable,
		Message: message,
		Err:     ErrNotParseable,
	}
}

// NewTooLargeError creates a new error for diff input above the line ceiling
func NewTooLargeError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeTooLarge,
		Message: message,
		Err:     ErrTooLarge,
	}
}

// NewNoOpError creates a new error for an operation invalid in the current state.
// err defaults to ErrNoOp.
func NewNoOpError(message string, err error) *AppError {
	if err == nil {
		err = ErrNoOp
	}
	return &AppError{
		Type:    ErrorTypeNoOp,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeCycle:
			return fmt.Sprintf("Serialization error: %s", appErr.Message)
		case ErrorTypeNotParseable:
			return fmt.Sprintf("Not parseable: %s", appErr.Message)
		case ErrorTypeTooLarge:
			return fmt.Sprintf("Too large: %s", appErr.Message)
		case ErrorTypeNoOp:
			return fmt.Sprintf("Nothing to do: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrCycle) {
		return "Error: The value refers to itself and cannot be serialized."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrInvalidPath) {
		return "Error: Invalid document path. Use a JSON array like [\"a\",0] or a path like a.b[0]."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
