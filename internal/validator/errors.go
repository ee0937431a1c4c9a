package validator

import (
	"errors"
	"fmt"
)

// ValidationError reports an argument an operation cannot use: a
// non-positive width, an unknown direction, a non-numeric value where an
// integer is required, or a payload that violates the input contract.
type ValidationError struct {
	Op  string
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Errorf builds a ValidationError for op.
func Errorf(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WithOp returns err as a ValidationError attributed to op. Errors that
// already carry an op keep it.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Op != "" {
			return err
		}
		cp := *ve
		cp.Op = op
		return &cp
	}
	return &ValidationError{Op: op, Msg: "invalid argument", Err: err}
}
