package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("Email already registered")
	// ErrInvalidCredentials is returned on login failure. The same value covers
	// an unknown email and a wrong password so the response never reveals
	// which part failed.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrAuthRequired is returned when no bearer token is present.
	ErrAuthRequired = errors.New("Authentication required")
	// ErrInvalidToken is returned when a token fails verification or its
	// subject no longer resolves to a user.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrForbidden is returned on self-only mutation violations.
	ErrForbidden = errors.New("Unauthorized")
	// ErrUserNotFound is returned when an id does not resolve to a record.
	ErrUserNotFound = errors.New("User not found")
)

// ErrorResponse is the JSON shape of every error the API returns.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HTTPError carries a status code alongside the message.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// NewValidationError wraps a field-level validation failure as a 400.
func NewValidationError(detail string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, detail)
}

// ToErrorResponse converts an HTTPError to the wire shape.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message, Error: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so internal detail never reaches the response body.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateEmail.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrAuthRequired):
		return NewHTTPError(http.StatusUnauthorized, ErrAuthRequired.Error())
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
