package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"tempo/shared/failure"
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
			name:    "BadRequest",
			err:     failure.BadRequest(errors.New("bad input")),
			code:    http.StatusBadRequest,
			message: "bad input",
		},
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("bad string"),
			code:    http.StatusBadRequest,
			message: "bad string",
		},
		{
			name:    "InternalError",
			err:     failure.InternalError(errors.New("boom")),
			code:    http.StatusInternalServerError,
			message: "boom",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("appointment not found"),
			code:    http.StatusNotFound,
			message: "appointment not found",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("already exists"),
			code:    http.StatusConflict,
			message: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if tt.err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Error())
			}
		})
	}

	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestCast(t *testing.T) {
	cause := errors.New("not a number")
	err := fmt.Errorf("saving appointment: %w", failure.Cast("starts_at", true, cause))

	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}

	var cast *failure.CastError
	if !errors.As(err, &cast) {
		t.Fatal("expected a CastError in the chain")
	}

	if cast.Field != "starts_at" || cast.Value != true {
		t.Errorf("unexpected field/value %q/%v", cast.Field, cast.Value)
	}

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}

	if !strings.Contains(cast.Error(), "starts_at") || !strings.Contains(cast.Error(), "not a number") {
		t.Errorf("unexpected message %q", cast.Error())
	}
}

func TestGetCode_Unknown(t *testing.T) {
	if failure.GetCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected plain errors to map to 500")
	}
}
