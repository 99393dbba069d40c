package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeServiceUnavailable, "locator down")
	if !err.Retryable {
		t.Error("SERVICE_UNAVAILABLE should be retryable")
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("preference", "browser.theme")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["resource"] != "preference" {
		t.Errorf("expected resource=preference, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "browser.theme" {
		t.Errorf("expected id=browser.theme, got %v", err.Details["id"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("preference", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_ConversionFailed_Success(t *testing.T) {
	cause := fmt.Errorf("invalid byte")
	err := ConversionFailed("decode", "Shift_JIS", cause)
	if err.Code != ErrCodeConversionFailed {
		t.Errorf("expected CONVERSION_FAILED, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if err.Details["charset"] != "Shift_JIS" {
		t.Errorf("expected charset detail, got %v", err.Details["charset"])
	}
}

func TestAppError_TypeMismatch_Success(t *testing.T) {
	err := TypeMismatch("app.retries", "integer", "many")
	if err.Details["actual"] != "string" {
		t.Errorf("expected actual=string, got %v", err.Details["actual"])
	}
	if !strings.Contains(err.Error(), "integer") {
		t.Errorf("expected message to name the expected kind, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := New(ErrCodeInternal, "x").WithDetails(map[string]any{"a": 1})
	err.WithDetails(map[string]any{"b": 2})
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("expected merged details, got %v", err.Details)
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{Code: ErrCodeInternal}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad")
	if err.Error() != "INVALID_INPUT: bad" {
		t.Errorf("unexpected format %q", err.Error())
	}
	err.WithCause(fmt.Errorf("root"))
	if !strings.Contains(err.Error(), "(cause: root)") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("codec"), ErrCodeServiceUnavailable, true},
		{"ExternalServiceError", ExternalServiceError("redis", fmt.Errorf("x")), ErrCodeExternalService, true},
		{"DatabaseError", DatabaseError(fmt.Errorf("x")), ErrCodeDatabaseError, true},
		{"UnsupportedCharset", UnsupportedCharset("klingon"), ErrCodeUnsupportedCharset, false},
		{"UnsupportedType", UnsupportedType("k", "invalid"), ErrCodeUnsupportedType, false},
		{"AlreadyExists", AlreadyExists("preference", "k"), ErrCodeAlreadyExists, false},
		{"InvalidInput", InvalidInput("name", "empty"), ErrCodeInvalidInput, false},
		{"Validation", Validation("bad"), ErrCodeInvalidInput, false},
		{"Internal", Internal(fmt.Errorf("x")), ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Internal(nil))
	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to see through wrapping")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NotFound("preference", "k"))
	if !IsCode(err, ErrCodeNotFound) {
		t.Error("expected NOT_FOUND")
	}
	if IsCode(err, ErrCodeTypeMismatch) {
		t.Error("did not expect TYPE_MISMATCH")
	}
	if IsCode(nil, ErrCodeNotFound) {
		t.Error("nil error carries no code")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NotFound("preference", "k")
	if Wrap(orig) != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestKindMismatch(t *testing.T) {
	err := KindMismatch("app.retries", "int", "string")
	if err.Code != ErrCodeTypeMismatch {
		t.Errorf("expected TYPE_MISMATCH, got %s", err.Code)
	}
	if err.Details["requested"] != "string" || err.Details["expected"] != "int" {
		t.Errorf("unexpected details %v", err.Details)
	}
}
