// Package errors provides structured error types for the program importer.
//
// All errors raised by the catalog, reconciliation, extraction and platform
// layers should use these types so that callers can branch on a code instead
// of matching message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Error codes used throughout the importer.
const (
	// Catalog errors
	CodeCatalogLoad    ErrorCode = "CATALOG_LOAD_FAILED"
	CodeCatalogInvalid ErrorCode = "CATALOG_INVALID"

	// Reconciliation errors
	CodeAliasResolution ErrorCode = "ALIAS_RESOLUTION_FAILED"
	CodeSemanticQuery   ErrorCode = "SEMANTIC_QUERY_FAILED"
	CodeMatchFailed     ErrorCode = "MATCH_FAILED"

	// Document and extraction errors
	CodeDocumentRead        ErrorCode = "DOCUMENT_READ_FAILED"
	CodeDocumentUnsupported ErrorCode = "DOCUMENT_UNSUPPORTED"
	CodeExtractionFailed    ErrorCode = "EXTRACTION_FAILED"

	// Platform errors
	CodePlatformAPI         ErrorCode = "PLATFORM_API_ERROR"
	CodePlatformRateLimited ErrorCode = "PLATFORM_RATE_LIMITED"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"
	CodeSecretError  ErrorCode = "SECRET_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// ImportError is the base error type for all importer errors.
// It provides structured error information including error codes,
// retry semantics, and contextual metadata.
type ImportError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an ImportError with the same code, so that
// wrapped copies still match their sentinel.
func (e *ImportError) Is(target error) bool {
	t, ok := target.(*ImportError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *ImportError) WithCause(cause error) *ImportError {
	return &ImportError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMessage adds a custom message.
func (e *ImportError) WithMessage(msg string) *ImportError {
	return &ImportError{
		Code:      e.Code,
		Message:   msg,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *ImportError) WithMetadata(key, value string) *ImportError {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &ImportError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	ErrCatalogLoad    = &ImportError{Code: CodeCatalogLoad, Message: "catalog could not be loaded", Retryable: false}
	ErrCatalogInvalid = &ImportError{Code: CodeCatalogInvalid, Message: "catalog record invalid", Retryable: false}

	ErrAliasResolution = &ImportError{Code: CodeAliasResolution, Message: "alias resolution failed", Retryable: false}
	ErrSemanticQuery   = &ImportError{Code: CodeSemanticQuery, Message: "semantic query failed", Retryable: false}
	ErrMatchFailed     = &ImportError{Code: CodeMatchFailed, Message: "exercise could not be matched", Retryable: false}

	ErrDocumentRead        = &ImportError{Code: CodeDocumentRead, Message: "document could not be read", Retryable: false}
	ErrDocumentUnsupported = &ImportError{Code: CodeDocumentUnsupported, Message: "unsupported document type", Retryable: false}
	ErrExtractionFailed    = &ImportError{Code: CodeExtractionFailed, Message: "workout extraction failed", Retryable: true}

	ErrPlatformAPI         = &ImportError{Code: CodePlatformAPI, Message: "platform API error", Retryable: false}
	ErrPlatformRateLimited = &ImportError{Code: CodePlatformRateLimited, Message: "platform rate limited", Retryable: true}

	ErrStorageError = &ImportError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSubError  = &ImportError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}
	ErrSecretError  = &ImportError{Code: CodeSecretError, Message: "secret access error", Retryable: true}

	ErrValidation = &ImportError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &ImportError{Code: CodeInternalError, Message: "internal error", Retryable: false}
)

// New creates a new ImportError with the given code and message.
func New(code ErrorCode, message string) *ImportError {
	return &ImportError{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// NewRetryable creates a new retryable ImportError.
func NewRetryable(code ErrorCode, message string) *ImportError {
	return &ImportError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// Wrap wraps an error with an ImportError.
func Wrap(cause error, code ErrorCode, message string) *ImportError {
	return &ImportError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// WrapRetryable wraps an error with a retryable ImportError.
func WrapRetryable(cause error, code ErrorCode, message string) *ImportError {
	return &ImportError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var ie *ImportError
	if stderrors.As(err, &ie) {
		return ie.Retryable
	}
	return false
}

// GetCode extracts the outermost error code from an error chain.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ie *ImportError
	if stderrors.As(err, &ie) {
		return ie.Code
	}
	return CodeInternalError
}

// HasCode reports whether any ImportError in the chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &ImportError{Code: code})
}
