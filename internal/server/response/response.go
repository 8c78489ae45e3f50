// Package response provides the JSON envelope and helpers used by every
// attendmerge API endpoint. Successful responses carry a data field and
// failures an error field.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/attendmerge/pkg/errors"
)

// Response represents the standardized API response structure.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, encoding errors cannot be reported
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// RequestTooLarge writes a 413 error response.
func RequestTooLarge(w http.ResponseWriter, details string) {
	JSON(w, http.StatusRequestEntityTooLarge, Fail("REQUEST_TOO_LARGE", "Upload too large", details))
}

// UnprocessableWorkbook writes a 422 error response for workbooks that could
// be read but do not have the expected layout.
func UnprocessableWorkbook(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnprocessableEntity, Fail("MALFORMED_WORKBOOK", message, ""))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail("RATE_LIMITED", "Rate limit exceeded", message))
}

// InternalError writes a 500 error response without exposing the error.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ErrorFromType maps typed errors to HTTP responses. Errors are matched
// through wrapping, so a StageError around a MalformedWorkbookError still
// maps to 422.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		malformed  *errors.MalformedWorkbookError
		validation *errors.ValidationError
	)
	switch {
	case errors.As(err, &malformed):
		UnprocessableWorkbook(w, malformed.Error())
	case errors.As(err, &validation):
		BadRequest(w, validation.Error(), "")
	case errors.Is(err, errors.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), "supported formats: xlsx, csv")
	case errors.Is(err, errors.ErrNotFound):
		NotFound(w, err.Error(), "")
	default:
		InternalError(w, err)
	}
}
