package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email address is already registered")
	// ErrInvalidCredentials is returned on any failed authentication. It is
	// deliberately the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserNotFound is returned when a user lookup by identifier fails,
	// including malformed identifiers.
	ErrUserNotFound = errors.New("user not found")
)

// ErrorObject is a single error in the response envelope.
type ErrorObject struct {
	Status string  `json:"status"`
	Code   string  `json:"code"`
	Title  string  `json:"title"`
	Detail string  `json:"detail,omitempty"`
	Source *Source `json:"source,omitempty"`
}

// Source points at the request field an error refers to.
type Source struct {
	Pointer string `json:"pointer"`
}

// ErrorResponse is the standardized error envelope: a list of error objects.
type ErrorResponse struct {
	Errors []ErrorObject `json:"errors"`
}

// NewErrorResponse builds a single-error envelope for the given status code.
func NewErrorResponse(statusCode int, title, detail, pointer string) ErrorResponse {
	obj := ErrorObject{
		Status: http.StatusText(statusCode),
		Code:   fmt.Sprintf("%d", statusCode),
		Title:  title,
		Detail: detail,
	}
	if pointer != "" {
		obj.Source = &Source{Pointer: pointer}
	}
	return ErrorResponse{Errors: []ErrorObject{obj}}
}

// MapError translates a domain error into an HTTP status and envelope.
// Anything unrecognized is a persistence/internal failure; driver detail
// is never leaked to the client.
func MapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest,
			"Validation Error", err.Error(), "/data/attributes/email")
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized,
			"Incorrect username or password.", "", "")
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, NewErrorResponse(http.StatusNotFound,
			"Resource does not exist", err.Error(), "")
	default:
		return http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError,
			"Problem saving document to the database.", "", "")
	}
}
