package logits

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration reports a batch-wide contract violation: an empty
// batch, mismatched policy array lengths, or contradictory batch flags.
// Callers must not retry with the same inputs unchanged.
var ErrInvalidConfiguration = errors.New("invalid sampling configuration")

// ErrMalformedPolicyValue reports a per-row policy value outside its valid
// domain. The whole call is rejected; values are never clamped, since silent
// clamping would make runs ambiguous to reproduce.
var ErrMalformedPolicyValue = errors.New("malformed policy value")

type configError struct {
	msg string
}

func (e configError) Error() string { return e.msg }

func (e configError) Unwrap() error { return ErrInvalidConfiguration }

func invalidConfig(format string, args ...any) error {
	return configError{msg: fmt.Sprintf(format, args...)}
}

type policyValueError struct {
	row int
	msg string
}

func (e policyValueError) Error() string {
	return fmt.Sprintf("row %d: %s", e.row, e.msg)
}

func (e policyValueError) Unwrap() error { return ErrMalformedPolicyValue }

func malformedPolicy(row int, format string, args ...any) error {
	return policyValueError{row: row, msg: fmt.Sprintf(format, args...)}
}
