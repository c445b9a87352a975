package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	sentinel := New(CodePersonNotFound, "person not found")
	wrapped := fmt.Errorf("assign duty: %w", New(CodePersonNotFound, "person 'Grace' not found"))

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected wrapped error to match sentinel by code")
	}
	if errors.Is(wrapped, New(CodeActiveDutyExists, "conflict")) {
		t.Fatal("expected mismatched codes to not match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := Wrap(CodeStorage, "put person", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via Unwrap")
	}
	if err.Error() != "put person" {
		t.Fatalf("message = %q, want %q", err.Error(), "put person")
	}
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handler: %w", New(CodeActiveDutyExists, "active duty"))
	if got := CodeOf(wrapped); got != CodeActiveDutyExists {
		t.Fatalf("code = %q, want %q", got, CodeActiveDutyExists)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}

func TestKindHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code Code
		want int
	}{
		{CodePersonNameEmpty, http.StatusBadRequest},
		{CodeDutyRankEmpty, http.StatusBadRequest},
		{CodePersonNotFound, http.StatusNotFound},
		{CodeNotFound, http.StatusNotFound},
		{CodePersonAlreadyExists, http.StatusConflict},
		{CodeActiveDutyExists, http.StatusConflict},
		{CodeStorage, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.Kind().HTTPStatus(); got != tc.want {
			t.Fatalf("%s status = %d, want %d", tc.code, got, tc.want)
		}
	}
}
