package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestEmptyErrors(t *testing.T) {
	wrapped := fmt.Errorf("fetch history: %w", ErrNoBuilds)

	if !errors.Is(wrapped, ErrUpstreamEmpty) {
		t.Error("errors.Is(wrapped, ErrUpstreamEmpty) = false, want true")
	}
	if !errors.Is(wrapped, ErrNoBuilds) {
		t.Error("errors.Is(wrapped, ErrNoBuilds) = false, want true")
	}
	if errors.Is(wrapped, ErrNoModelVersion) {
		t.Error("errors.Is(wrapped, ErrNoModelVersion) = true, want false")
	}
	if ErrNoBuilds.Error() != "No ci_builds data retrieved from GHTorrent API" {
		t.Errorf("ErrNoBuilds = %q", ErrNoBuilds.Error())
	}
}

func TestWrapError_Unauthorized(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := &HTTPError{Service: "History", StatusCode: code}
		wrapped := WrapError(err)

		userErr, ok := wrapped.(*UserError)
		if !ok {
			t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
		}
		if !strings.Contains(userErr.Hint, "api-token") {
			t.Errorf("Hint should mention api-token, got %q", userErr.Hint)
		}

		var httpErr *HTTPError
		if !errors.As(wrapped, &httpErr) {
			t.Error("wrapped error should still unwrap to *HTTPError")
		}
	}
}

func TestWrapError_NotFound(t *testing.T) {
	wrapped := WrapError(&HTTPError{Service: "App", StatusCode: http.StatusNotFound})

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}
	if userErr.Message != "App endpoint not found" {
		t.Errorf("Message = %q", userErr.Message)
	}
}

func TestWrapError_PassThrough(t *testing.T) {
	if WrapError(nil) != nil {
		t.Error("WrapError(nil) should be nil")
	}

	plain := errors.New("boom")
	if WrapError(plain) != plain {
		t.Error("non-HTTP errors should pass through unchanged")
	}

	serverErr := &HTTPError{Service: "App", StatusCode: http.StatusInternalServerError}
	if WrapError(serverErr) != error(serverErr) {
		t.Error("5xx errors should pass through unchanged")
	}
}
