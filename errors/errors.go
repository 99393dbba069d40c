package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type returned by hostkit operations.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// ServiceUnavailable reports a host service that could not be resolved.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s service is not available.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// ExternalServiceError reports a failure inside a host service backend.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error.", service),
		Retryable: true,
		Details:   map[string]any{"service": service}, Cause: cause,
	}
}

// DatabaseError reports a storage backend failure.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A storage error occurred.",
		Retryable: true, Cause: cause,
	}
}

// UnsupportedCharset reports an unknown charset name.
func UnsupportedCharset(charset string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedCharset, Message: fmt.Sprintf("Unsupported charset %q.", charset),
		Details: map[string]any{"charset": charset},
	}
}

// ConversionFailed reports text that could not be converted to or from charset.
func ConversionFailed(op, charset string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConversionFailed, Message: fmt.Sprintf("Cannot %s text as %s.", op, charset),
		Details: map[string]any{"operation": op, "charset": charset}, Cause: cause,
	}
}

// NotFound reports a preference that has no value.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// AlreadyExists reports a resource that is already defined.
func AlreadyExists(resource, id string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("The %s %q already exists.", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// UnsupportedType reports a stored type the bridge cannot handle.
func UnsupportedType(name, kind string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedType, Message: fmt.Sprintf("Preference %q has unsupported type %s.", name, kind),
		Details: map[string]any{"name": name, "kind": kind},
	}
}

// TypeMismatch reports a value that cannot be stored under the existing type.
func TypeMismatch(name, want string, value any) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Preference %q expects a %s value, got %T.", name, want, value),
		Details: map[string]any{"name": name, "expected": want, "actual": fmt.Sprintf("%T", value)},
	}
}

// KindMismatch reports a typed read of a preference stored under another kind.
func KindMismatch(name, stored, requested string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Preference %q is a %s, not a %s.", name, stored, requested),
		Details: map[string]any{"name": name, "expected": stored, "requested": requested},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap returns err as an AppError, wrapping unknown errors as internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
