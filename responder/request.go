package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/drblury/etlweaver/jsonutil"
)

var (
	// ErrEmptyBody is returned when a request carries no body at all.
	ErrEmptyBody = errors.New("request body is empty")
	// ErrInvalidUTF8 is returned for bodies that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("request body is not valid UTF-8")
)

// decodeError keeps the underlying decoder error for errors.As while
// reporting only its first line.
type decodeError struct {
	msg string
	err error
}

func (e *decodeError) Error() string { return e.msg }
func (e *decodeError) Unwrap() error { return e.err }

// ReadRequestBody parses the request body into the provided value and handles
// malformed content by writing an error envelope. Numbers decoded into
// interface values are kept as json.Number. Bodies cut short by
// http.MaxBytesReader are reported as 413.
func (r *Responder) ReadRequestBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := r.decodeRequestBody(req, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r.HandleAPIError(w, req, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit), "failed to read request body")
			return false
		}
		r.HandleBadRequestError(w, req, err, "failed to parse request body")
		return false
	}
	return true
}

func (r *Responder) decodeRequestBody(req *http.Request, v any) error {
	if req == nil || req.Body == nil {
		return ErrEmptyBody
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyBody
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	if err := jsonutil.UnmarshalNumber(data, v); err != nil {
		return conciseDecodeError(err)
	}
	return nil
}

// conciseDecodeError trims sonic's syntax errors, which are quoted and carry
// an excerpt of the input after the first line.
func conciseDecodeError(err error) error {
	msg := err.Error()
	if unquoted, uerr := strconv.Unquote(msg); uerr == nil {
		msg = unquoted
	}
	line, _, _ := strings.Cut(msg, "\n")
	line = strings.TrimSpace(line)
	if line == "" || line == err.Error() {
		return err
	}
	return &decodeError{msg: line, err: err}
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
