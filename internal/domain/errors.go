package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Submission errors, all terminal for the current submission
	CodeRequestTimeout    ErrorCode = "REQUEST_TIMEOUT"
	CodeTransportError    ErrorCode = "TRANSPORT_ERROR"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeEmptyResult       ErrorCode = "EMPTY_RESULT"

	CodeSubmissionSuperseded ErrorCode = "SUBMISSION_SUPERSEDED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

// Sentinels for errors.Is; matching is by code only.
var (
	ErrRequestTimeout       = &DomainError{Code: CodeRequestTimeout}
	ErrTransport            = &DomainError{Code: CodeTransportError}
	ErrMalformedResponse    = &DomainError{Code: CodeMalformedResponse}
	ErrEmptyResult          = &DomainError{Code: CodeEmptyResult}
	ErrSubmissionSuperseded = &DomainError{Code: CodeSubmissionSuperseded}
)

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a diagnostic key/value that the error middleware exposes as details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInvalidConfigError(message string) *DomainError {
	return NewError(CodeInvalidConfig, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewRequestTimeoutError(err error) *DomainError {
	return NewError(CodeRequestTimeout, "exercise request timed out, please try again later", err)
}

// NewTransportError keeps whatever the proxy or vendor said so it can be diagnosed later.
func NewTransportError(message string, status int, details interface{}, err error) *DomainError {
	if message == "" {
		message = "exercise request failed"
	}
	domainErr := NewError(CodeTransportError, message, err)
	if status != 0 {
		domainErr.WithContext("status", status)
	}
	if details != nil {
		domainErr.WithContext("details", details)
	}
	return domainErr
}

func NewMalformedResponseError(message string, err error) *DomainError {
	return NewError(CodeMalformedResponse, message, err)
}

func NewEmptyResultError(message string) *DomainError {
	return NewError(CodeEmptyResult, message, nil)
}

func NewSubmissionSupersededError(submissionID string) *DomainError {
	return NewError(CodeSubmissionSuperseded, "a newer submission replaced this one", nil).
		WithContext("submission_id", submissionID)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned as a whole so the client sees every problem at once.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("invalid value %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("value %d is out of range [%d, %d]", value, min, max),
	}
}
