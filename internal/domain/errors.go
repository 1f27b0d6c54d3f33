package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations
var (
	// ErrUnauthorized indicates the session token was rejected (HTTP 401)
	ErrUnauthorized = errors.New("session is no longer valid")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrNotLoggedIn indicates no session is stored
	ErrNotLoggedIn = errors.New("not logged in")
)

// TransportError indicates the request never reached the server or no
// response was received. It is reported once and never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("server is unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FieldError is one entry of a server-side validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError indicates the server responded with status >= 400. Validation
// failures (400/422) carry per-field messages in Errors.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNotFound)
// match the corresponding statuses.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FieldMessages returns validation messages keyed by field path
// (e.g. "translations.0.name"). Empty when the error carries none.
func FieldMessages(err error) map[string]string {
	apiErr, ok := AsAPIError(err)
	if !ok || len(apiErr.Errors) == 0 {
		return nil
	}
	msgs := make(map[string]string, len(apiErr.Errors))
	for _, fe := range apiErr.Errors {
		msgs[fe.Field] = fe.Message
	}
	return msgs
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
