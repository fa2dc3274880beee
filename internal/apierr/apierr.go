// Package apierr defines the error taxonomy surfaced across the inference
// server: startup-fatal config/model errors and the per-request error
// classes the HTTP adapter maps to status codes.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class tags an error with the taxonomy bucket it belongs to.
type Class string

const (
	ClassConfig     Class = "config_error"
	ClassModelInit  Class = "model_init_error"
	ClassBadRequest Class = "bad_request"
	ClassTemplate   Class = "template_error"
	ClassDecode     Class = "decode_error"
	ClassGeneration Class = "generation_error"
)

// Error is a classified, wrapped error. ConfigError and ModelInitError are
// startup-fatal and are never surfaced over HTTP; the rest map to 400.
type Error struct {
	Class Class
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Class, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(class Class, msg string, err error) *Error {
	return &Error{Class: class, Msg: msg, Err: err}
}

func Config(msg string, err error) *Error     { return newErr(ClassConfig, msg, err) }
func ModelInit(msg string, err error) *Error  { return newErr(ClassModelInit, msg, err) }
func BadRequest(msg string, err error) *Error { return newErr(ClassBadRequest, msg, err) }
func Template(msg string, err error) *Error   { return newErr(ClassTemplate, msg, err) }
func Decode(msg string, err error) *Error     { return newErr(ClassDecode, msg, err) }
func Generation(msg string, err error) *Error { return newErr(ClassGeneration, msg, err) }

// StatusCode returns the HTTP status this error should be surfaced as.
// ConfigError and ModelInitError have no HTTP representation — they abort
// the process before the listener binds — so they fall back to 500 if one
// ever does leak through a handler.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Class {
		case ClassBadRequest, ClassTemplate, ClassDecode, ClassGeneration:
			return http.StatusBadRequest
		case ClassConfig, ClassModelInit:
			return http.StatusInternalServerError
		}
	}
	return http.StatusBadRequest
}
