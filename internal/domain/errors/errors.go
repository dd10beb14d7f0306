package errors

import (
	"net/http"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() any      // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   any
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string, details any) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() any {
	return e.details
}

// Is matches any BaseError carrying the same business code, so a copy made by
// WithDetails still satisfies errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WithDetails returns a copy carrying detailed error information
func (e *BaseError) WithDetails(details any) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Load errors: fatal to a dataset upload.
var (
	ErrMissingRequiredColumns = NewBaseError(
		http.StatusUnprocessableEntity,
		"MISSING_REQUIRED_COLUMNS",
		"The spreadsheet is missing required columns",
		nil,
	)

	ErrNoPostalColumn = NewBaseError(
		http.StatusUnprocessableEntity,
		"NO_POSTAL_COLUMN",
		"No zip code column found (looking for 'zip_short' or 'zip')",
		nil,
	)

	ErrUnsupportedFileFormat = NewBaseError(
		http.StatusUnsupportedMediaType,
		"UNSUPPORTED_FILE_FORMAT",
		"Unsupported file format",
		nil,
	)

	ErrUnreadableFile = NewBaseError(
		http.StatusBadRequest,
		"UNREADABLE_FILE",
		"The uploaded file could not be read",
		nil,
	)

	ErrEmptyTable = NewBaseError(
		http.StatusUnprocessableEntity,
		"EMPTY_TABLE",
		"The spreadsheet has no header row",
		nil,
	)
)

// Search errors: fatal to a single radius search.
var (
	ErrInvalidTargetCode = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TARGET_CODE",
		"Please enter a valid 5-digit zip code",
		nil,
	)

	ErrUnresolvableTarget = NewBaseError(
		http.StatusUnprocessableEntity,
		"UNRESOLVABLE_TARGET",
		"Could not find coordinates for zip code",
		nil,
	)
)

// Session errors.
var (
	ErrSessionNotFound = NewBaseError(
		http.StatusNotFound,
		"SESSION_NOT_FOUND",
		"Search session not found or expired",
		nil,
	)

	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"Too many active search sessions",
		nil,
	)

	ErrDatasetNotLoaded = NewBaseError(
		http.StatusNotFound,
		"DATASET_NOT_LOADED",
		"No ATM data has been loaded for this session",
		nil,
	)

	ErrNoInvalidRecords = NewBaseError(
		http.StatusNotFound,
		"NO_INVALID_RECORDS",
		"All zip codes are valid",
		nil,
	)
)

// General errors
var (
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		nil,
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		nil,
	)
)
