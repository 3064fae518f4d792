package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigSave  ErrorCode = "CONFIG_SAVE"

	// Manifest errors
	ErrManifestMissing   ErrorCode = "MANIFEST_MISSING"
	ErrManifestMalformed ErrorCode = "MANIFEST_MALFORMED"
	ErrManifestWrite     ErrorCode = "MANIFEST_WRITE"

	// Export errors
	ErrEmptySelection ErrorCode = "EMPTY_SELECTION"
	ErrExportFailed   ErrorCode = "EXPORT_FAILED"
	ErrDirCreate      ErrorCode = "DIR_CREATE"

	// Import errors
	ErrMissingFile    ErrorCode = "MISSING_FILE"
	ErrImportFailed   ErrorCode = "IMPORT_FAILED"
	ErrImportNoObject ErrorCode = "IMPORT_NO_OBJECT"

	// Asset errors
	ErrDeleteFailed     ErrorCode = "DELETE_FAILED"
	ErrRelocateConflict ErrorCode = "RELOCATE_CONFLICT"
	ErrMoveFailed       ErrorCode = "MOVE_FAILED"

	// Skeleton errors
	ErrSkeletonMissing      ErrorCode = "SKELETON_MISSING"
	ErrSkeletonUnresolvable ErrorCode = "SKELETON_UNRESOLVABLE"
	ErrRetargetFailed       ErrorCode = "RETARGET_FAILED"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// BridgeError represents a structured error with code and details
type BridgeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BridgeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BridgeError) Is(target error) bool {
	var targetErr *BridgeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BridgeError with the given code and message
func New(code ErrorCode, message string) *BridgeError {
	return &BridgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BridgeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BridgeError {
	return &BridgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BridgeError
func Wrap(err error, code ErrorCode, message string) *BridgeError {
	if err == nil {
		return nil
	}
	return &BridgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BridgeError {
	if err == nil {
		return nil
	}
	return &BridgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BridgeError) WithDetail(key string, value interface{}) *BridgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BridgeError
func GetErrorCode(err error) ErrorCode {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Code
	}
	return ErrUnknown
}
