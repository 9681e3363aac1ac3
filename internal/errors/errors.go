package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodePlayerNotFound = "PLAYER_NOT_FOUND"
	ErrCodeNoGamesFound   = "NO_GAMES_FOUND"
	ErrCodeFetchFailed    = "FETCH_FAILED"
	ErrCodeQueueFull      = "QUEUE_FULL"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewPlayerNotFoundError reports that the provider has no such player.
func NewPlayerNotFoundError(username string, err error) *AppError {
	return &AppError{
		Code:    ErrCodePlayerNotFound,
		Message: fmt.Sprintf("user '%s' not found on Chess.com", username),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// NewNoGamesFoundError reports a known player without any archived games.
func NewNoGamesFoundError(username string) *AppError {
	return &AppError{
		Code:    ErrCodeNoGamesFound,
		Message: fmt.Sprintf("no games found for user: %s", username),
		Status:  http.StatusNotFound,
	}
}

// NewFetchFailedError reports a provider failure that survived all retries.
func NewFetchFailedError(url string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeFetchFailed,
		Message: fmt.Sprintf("failed to fetch %s", url),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewQueueFullError reports that a background job could not be queued.
func NewQueueFullError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeQueueFull,
		Message: "job queue is full, try again later",
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As returns the AppError wrapped in err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}
