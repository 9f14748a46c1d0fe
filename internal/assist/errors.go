package assist

import "fmt"

// AssistError represents an error from the intake-assist client.
type AssistError struct {
	// Type categorizes the error
	Type string

	// Message is a human-readable error message
	Message string

	// Code is the HTTP status code (if applicable)
	Code int

	// Err is the underlying error
	Err error
}

// Error types.
const (
	ErrorTypeNetwork    = "network"
	ErrorTypeAPI        = "api"
	ErrorTypeValidation = "validation"
	ErrorTypeParse      = "parse"
)

// Error implements the error interface.
func (e *AssistError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("assist %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("assist %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AssistError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *AssistError {
	return &AssistError{
		Type:    ErrorTypeNetwork,
		Message: "Failed to connect to OpenRouter API. Check your network connection.",
		Err:     err,
	}
}

// NewAPIError creates an API error with status code.
func NewAPIError(code int, message string) *AssistError {
	return &AssistError{
		Type:    ErrorTypeAPI,
		Code:    code,
		Message: fmt.Sprintf("OpenRouter API error: %s", message),
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, err error) *AssistError {
	return &AssistError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("Validation failed: %s", message),
		Err:     err,
	}
}

// NewParseError creates a parse error.
func NewParseError(content string, err error) *AssistError {
	return &AssistError{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("Failed to parse model output: %s", content),
		Err:     err,
	}
}
