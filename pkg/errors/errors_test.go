package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrCodeInvalidArgument, "test error", 400)
	expected := "INVALID_ARGUMENT: test error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestAppError_WithCause(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, ErrCodeInternal, "wrapped error", 500)

	if err.Cause != originalErr {
		t.Errorf("Cause = %v, want %v", err.Cause, originalErr)
	}

	if !strings.Contains(err.Error(), "original error") {
		t.Errorf("Error() should contain cause, got: %v", err.Error())
	}

	if !errors.Is(err, originalErr) {
		t.Error("errors.Is should match the wrapped cause")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := NewInvalidArgumentError("bad request")
	err.WithDetail("title is required").WithDetail("description is required")

	if len(err.Details) != 2 {
		t.Fatalf("Details length = %d, want 2", len(err.Details))
	}
	if err.Details[0] != "title is required" {
		t.Errorf("Details[0] = %q", err.Details[0])
	}
}

func TestConstructors_HTTPStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   ErrorCode
		status int
	}{
		{NewInvalidArgumentError("x"), ErrCodeInvalidArgument, http.StatusBadRequest},
		{NewUnauthorizedError("x"), ErrCodeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("x"), ErrCodeForbidden, http.StatusForbidden},
		{NewNotFoundError("video"), ErrCodeNotFound, http.StatusNotFound},
		{NewConflictError("x"), ErrCodeConflict, http.StatusConflict},
		{NewRateLimitError(), ErrCodeRateLimit, http.StatusTooManyRequests},
		{NewInternalError("x"), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
		}
		if tt.err.HTTPStatus != tt.status {
			t.Errorf("HTTPStatus = %v, want %v", tt.err.HTTPStatus, tt.status)
		}
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("playlist")
	if err.Message != "playlist not found" {
		t.Errorf("Message = %q, want %q", err.Message, "playlist not found")
	}
}

func TestGetAppError_Unwraps(t *testing.T) {
	appErr := NewNotFoundError("comment")
	wrapped := fmt.Errorf("handler failed: %w", appErr)

	got := GetAppError(wrapped)
	if got == nil {
		t.Fatal("GetAppError returned nil for wrapped AppError")
	}
	if got.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", got.Code, ErrCodeNotFound)
	}
}

func TestGetAppError_NonAppError(t *testing.T) {
	if GetAppError(errors.New("plain")) != nil {
		t.Error("GetAppError should return nil for plain errors")
	}
	if GetAppError(nil) != nil {
		t.Error("GetAppError should return nil for nil")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NewInternalError("x")) {
		t.Error("IsAppError = false for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError = true for plain error")
	}
}
