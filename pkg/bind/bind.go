// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/inventario/config"
	"github.com/shashiranjanraj/inventario/pkg/validate"
)

// ErrMalformedBody matches every decode failure so callers can answer 400.
var ErrMalformedBody = errors.New("malformed request body")

// BodyError is a decode failure with a message safe to show the client.
type BodyError struct {
	Message string
	Cause   error
}

func (e *BodyError) Error() string { return e.Message }

func (e *BodyError) Unwrap() error { return e.Cause }

func (e *BodyError) Is(target error) bool { return target == ErrMalformedBody }

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures and (nil, err)
// when the body is malformed or too large.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return nil, &BodyError{Message: fmt.Sprintf("Cuerpo demasiado grande (máximo %d bytes)", maxErr.Limit), Cause: err}
		case errors.As(err, &typeErr):
			return nil, &BodyError{Message: fmt.Sprintf("El campo %s tiene un tipo inválido", typeErr.Field), Cause: err}
		default:
			return nil, &BodyError{Message: "JSON inválido", Cause: err}
		}
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}
