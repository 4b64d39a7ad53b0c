// Package errors provides error code definitions shared across the backend.
package errors

import "fmt"

// ErrorCode identifies a class of failure for API responses and logs.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrDuplicate  ErrorCode = "DUPLICATE"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Store errors
	ErrStoreLoad ErrorCode = "STORE_LOAD_FAILED"
	ErrStoreSave ErrorCode = "STORE_SAVE_FAILED"

	// Text errors
	ErrTextNotFound ErrorCode = "TEXT_NOT_FOUND"
	ErrTextInvalid  ErrorCode = "TEXT_INVALID"

	// Folder errors
	ErrFolderNotFound ErrorCode = "FOLDER_NOT_FOUND"
	ErrFolderCycle    ErrorCode = "FOLDER_CYCLE"

	// Practice errors
	ErrRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	// AI errors
	ErrAINotConfigured ErrorCode = "AI_NOT_CONFIGURED"
	ErrAIFailed        ErrorCode = "AI_FAILED"
	ErrAIBadResponse   ErrorCode = "AI_BAD_RESPONSE"

	// Backup errors
	ErrExportFailed   ErrorCode = "EXPORT_FAILED"
	ErrImportFailed   ErrorCode = "IMPORT_FAILED"
	ErrBadSnapshot    ErrorCode = "INVALID_SNAPSHOT"
	ErrBadSnapshotVer ErrorCode = "UNSUPPORTED_SNAPSHOT_VERSION"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
