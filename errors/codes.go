package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates a host service could not be resolved.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeExternalService indicates a backend behind a host service failed.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeDatabaseError indicates a storage backend failed.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// Charset errors
const (
	// ErrCodeUnsupportedCharset indicates the charset name is not known.
	ErrCodeUnsupportedCharset ErrorCode = "UNSUPPORTED_CHARSET"
	// ErrCodeConversionFailed indicates the text could not be converted.
	ErrCodeConversionFailed ErrorCode = "CONVERSION_FAILED"
)

// Preference errors
const (
	// ErrCodeNotFound indicates the preference has no value and no type.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnsupportedType indicates the stored type is not string, integer or boolean.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	// ErrCodeTypeMismatch indicates a value cannot be stored under the existing type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeAlreadyExists indicates the preference is already defined.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Input and internal errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeExternalService:    true,
	ErrCodeDatabaseError:      true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
