package logger

import (
	"time"

	"github.com/kbukum/hostkit/errors"
)

// Field keys shared by hostkit log entries.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldCharset   = "charset"
	FieldPref      = "pref"
	FieldKind      = "kind"
	FieldBackend   = "backend"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldCode      = "code"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a trailing key without a value are dropped.
//
//	log.Info("converted", logger.Fields(logger.FieldCharset, "Shift_JIS"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields describes a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return MergeWithError(map[string]interface{}{FieldOperation: op}, err)
}

// DurationFields describes a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// PrefFields identifies a preference and its stored kind.
func PrefFields(name, kind string) map[string]interface{} {
	return map[string]interface{}{
		FieldPref: name,
		FieldKind: kind,
	}
}

// MergeWithError adds the error, and its code for an AppError, to fields.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err == nil {
		return fields
	}
	fields[FieldError] = err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		fields[FieldCode] = string(appErr.Code)
	}
	return fields
}
