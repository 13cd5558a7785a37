package failure_test

import (
	"carrental/shared/failure"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("invalid date format"),
			code:    http.StatusBadRequest,
			message: "invalid date format",
		},
		{
			name:    "BadRequest wraps error",
			err:     failure.BadRequest(errors.New("decode failed")),
			code:    http.StatusBadRequest,
			message: "decode failed",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			message: "booking not found",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("the car is already booked for the selected dates"),
			code:    http.StatusConflict,
			message: "the car is already booked for the selected dates",
		},
		{
			name:    "Unauthorized",
			err:     failure.Unauthorized("missing authorization header"),
			code:    http.StatusUnauthorized,
			message: "missing authorization header",
		},
		{
			name:    "Forbidden",
			err:     failure.Forbidden("no access"),
			code:    http.StatusForbidden,
			message: "no access",
		},
		{
			name:    "ServiceUnavailable",
			err:     failure.ServiceUnavailable("currency service is unavailable"),
			code:    http.StatusServiceUnavailable,
			message: "currency service is unavailable",
		},
		{
			name:    "InternalError",
			err:     failure.InternalError(errors.New("boom")),
			code:    http.StatusInternalServerError,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			if !errors.As(tt.err, &f) {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, f.Code)
			}

			if f.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, f.Message)
			}
		})
	}
}

func TestNilErrorConstructors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("BadRequest(nil) should return nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("InternalError(nil) should return nil")
	}
}

func TestGetCode(t *testing.T) {
	if code := failure.GetCode(failure.NotFound("missing")); code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, code)
	}

	if code := failure.GetCode(errors.New("plain error")); code != http.StatusInternalServerError {
		t.Errorf("expected %d for non-failure error, got %d", http.StatusInternalServerError, code)
	}

	wrapped := fmt.Errorf("context: %w", failure.Conflict("overlap"))
	if code := failure.GetCode(wrapped); code != http.StatusConflict {
		t.Errorf("expected %d for wrapped failure, got %d", http.StatusConflict, code)
	}
}

func TestIs(t *testing.T) {
	err := failure.Conflict("overlap")

	if !failure.Is(err, http.StatusConflict) {
		t.Error("expected Is to match the failure code")
	}

	if failure.Is(err, http.StatusNotFound) {
		t.Error("expected Is to reject a different code")
	}

	if failure.Is(errors.New("plain"), http.StatusInternalServerError) {
		t.Error("expected Is to reject non-failure errors")
	}
}
