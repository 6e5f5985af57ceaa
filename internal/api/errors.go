package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AuthError indicates that the session is missing or expired (HTTP 401).
// Callers react by routing the user to the login view instead of
// surfacing a failure notice.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response from the site API, carrying the
// server's structured error detail when one was present in the body.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf(
		"unexpected status %d on %s %s", e.StatusCode, e.Method, e.Path,
	)
}

// errorBody matches the two detail shapes the API produces:
// {"detail": "..."} and {"detail": {"message": "..."}}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type errorDetail struct {
	Message string `json:"message"`
}

// newAPIError decodes the response body into an *APIError. A body that
// is not JSON, or carries no detail, yields an APIError without Detail.
func newAPIError(status int, method, path string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path}

	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || len(eb.Detail) == 0 {
		return apiErr
	}

	var asString string
	if json.Unmarshal(eb.Detail, &asString) == nil {
		apiErr.Detail = asString
		return apiErr
	}

	var asObject errorDetail
	if json.Unmarshal(eb.Detail, &asObject) == nil {
		apiErr.Detail = asObject.Message
	}
	return apiErr
}
