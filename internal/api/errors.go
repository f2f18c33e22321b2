package api

import "errors"

// ErrInvalidRequest tags every client-caused rejection, letting handlers
// map it to a 400 with errors.Is instead of inspecting messages.
var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }
func (e invalidRequestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}
