package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"replayrng/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInvalidRange  = "INVALID_RANGE"
	CodeInvalidState  = "INVALID_STATE"
	CodeRestoreTooFar = "RESTORE_TOO_FAR"
	CodeDeterminism   = "NON_DETERMINISTIC"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

// NotFound keeps the domain not-found error as its cause so callers can still
// match core.ErrNotFound.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Cause:   core.NewNotFoundError(resource, id),
	}
}

func InternalError(message string, cause error) *AppError {
	return &AppError{Code: CodeInternalError, Message: message, Cause: cause}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func RestoreTooFar(distance, limit int) *AppError {
	return New(CodeRestoreTooFar, fmt.Sprintf("restore distance %d exceeds limit %d", distance, limit))
}

// FromDomain classifies a domain error by its sentinel and returns it as an
// AppError. AppErrors pass through unchanged.
func FromDomain(err error) error {
	if err == nil || IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, core.ErrInvalidRange):
		return WithCode(CodeInvalidRange, err)
	case stderrors.Is(err, core.ErrInvalidState):
		return WithCode(CodeInvalidState, err)
	case stderrors.Is(err, core.ErrInvalidRestore):
		return WithCode(CodeInvalidInput, err)
	case stderrors.Is(err, core.ErrNotFound):
		return WithCode(CodeNotFound, err)
	case core.IsDeterminismError(err):
		return WithCode(CodeDeterminism, err)
	default:
		return InternalError(err.Error(), err)
	}
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(err error) int {
	switch GetCode(FromDomain(err)) {
	case CodeInvalidRange, CodeInvalidState, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRestoreTooFar:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
