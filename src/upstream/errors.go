package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamEmpty is returned when a service answered successfully but
	// without the data the step needs.
	ErrUpstreamEmpty = errors.New("upstream returned no data")

	ErrNoBuilds       = &EmptyError{Message: "No ci_builds data retrieved from GHTorrent API"}
	ErrNoModelVersion = &EmptyError{Message: "no model version available"}
)

// EmptyError is a specific kind of ErrUpstreamEmpty carrying its own message.
type EmptyError struct {
	Message string
}

func (e *EmptyError) Error() string {
	return e.Message
}

func (e *EmptyError) Is(target error) bool {
	return target == ErrUpstreamEmpty
}

// ContextError reports a value missing from the CI execution context.
type ContextError struct {
	Message string
}

func (e *ContextError) Error() string {
	return e.Message
}

// HTTPError is a non-2xx answer from one of the external services.
type HTTPError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s API error %d on %s %s", e.Service, e.StatusCode, e.Method, e.URL)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	switch httpErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &UserError{
			Message: fmt.Sprintf("%s rejected the credentials", httpErr.Service),
			Hint:    "check that the api-token input is set and valid",
			Err:     err,
		}
	case http.StatusNotFound:
		return &UserError{
			Message: fmt.Sprintf("%s endpoint not found", httpErr.Service),
			Hint:    "check the configured base URL",
			Err:     err,
		}
	}

	return err
}
