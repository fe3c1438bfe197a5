package httpx

import (
	"net/http"

	"github.com/sundayezeilo/blogapi/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid_input"
	case errx.Unauthorized:
		return "unauthorized"
	case errx.Forbidden:
		return "forbidden"
	case errx.Unavailable:
		return "unavailable"
	case errx.RateLimited:
		return "throttled"
	default:
		return "internal_error"
	}
}

// defaultMessages are shown for kinds whose underlying error must not leak.
var defaultMessages = map[errx.Kind]string{
	errx.Unauthorized: "Authentication credentials were not provided or are invalid.",
	errx.Forbidden:    "You do not have permission to perform this action.",
	errx.Unavailable:  "The service is temporarily unavailable. Please try again.",
	errx.RateLimited:  "Request was throttled.",
	errx.Internal:     "An unexpected error occurred.",
	errx.Unknown:      "An unexpected error occurred.",
}

// WriteErr renders err using its Kind. Client-facing kinds (NotFound, Conflict,
// Invalid) carry message, or the error text when message is empty; the rest
// always use a generic message.
func WriteErr(w http.ResponseWriter, err error, message string) {
	kind := errx.KindOf(err)
	if generic, ok := defaultMessages[kind]; ok && message == "" {
		message = generic
	}
	if message == "" {
		message = err.Error()
	}
	WriteError(w, ErrorKindToStatus(kind), ErrorKindToCode(kind), message, nil)
}
