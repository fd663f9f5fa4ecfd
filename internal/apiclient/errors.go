package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthRequired is returned before any network call when no token is held.
	ErrAuthRequired = errors.New("authentication required")
	// ErrSessionExpired matches any 401 response from the API.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrInvalidCredentials is returned by Login when the API rejects the credentials.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a client-side field check that failed before submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Required returns a ValidationError for a blank mandatory field.
func Required(field, label string) *ValidationError {
	return &ValidationError{Field: field, Message: label + " is required"}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.Status == http.StatusUnauthorized
}

// NetworkError is a transport failure: DNS, refused connection, timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "failed to connect to the server (" + e.Op + "): " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status of an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
