package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (1MB).
	MaxRequestBodySize = 1 << 20
)

// DecodeJSON decodes JSON from the request body with size limits.
// Unknown fields are rejected so typos in field names surface as 400s.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var zeroValue T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)
	defer func() {
		_ = r.Body.Close()
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var v T
	if err := decoder.Decode(&v); err != nil {
		var syntaxErr *json.SyntaxError
		var unmarshalErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxErr):
			return zeroValue, fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
		case errors.As(err, &unmarshalErr):
			return zeroValue, fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
		case errors.As(err, &maxBytesErr):
			return zeroValue, fmt.Errorf("request body too large (max %d bytes)", MaxRequestBodySize)
		case errors.Is(err, io.EOF):
			return zeroValue, errors.New("request body is empty")
		default:
			return zeroValue, fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	if decoder.More() {
		return zeroValue, errors.New("request body contains multiple JSON objects")
	}

	return v, nil
}

// Bind decodes the body into T and runs struct validation on it.
// Decode failures and validation failures are both reported as *BindError so
// handlers can render them the same way.
func Bind[T any](r *http.Request) (T, error) {
	v, err := DecodeJSON[T](r)
	if err != nil {
		return v, &BindError{Message: err.Error()}
	}
	if fields := ValidateStruct(v); len(fields) > 0 {
		var zero T
		return zero, &BindError{Message: "validation failed", Fields: fields}
	}
	return v, nil
}

// BindError describes a request body that could not be accepted.
type BindError struct {
	Message string
	Fields  map[string][]string
}

func (e *BindError) Error() string { return e.Message }

// WriteBindError renders err as a 400 response. Field errors go into details.
func WriteBindError(w http.ResponseWriter, err error) {
	var be *BindError
	if errors.As(err, &be) && len(be.Fields) > 0 {
		WriteError(w, http.StatusBadRequest, "validation_failed", be.Message, be.Fields)
		return
	}
	WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
}
