package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrDataInsufficient indicates an operation needed at least one (or two) non-missing values.
	ErrDataInsufficient = errors.New("insufficient data")
	// ErrDivisionUndefined indicates a ratio or correlation with a zero denominator.
	ErrDivisionUndefined = errors.New("division undefined")
	// ErrUnknownField indicates a query referenced a field outside the schema or not valid for the query.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownCategory indicates a label outside a field's vocabulary.
	ErrUnknownCategory = errors.New("unknown category")
)

// FieldError wraps one of the sentinel errors with the operation and field involved.
type FieldError struct {
	Op    string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "field error"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(op string, f Field, err error) error {
	return &FieldError{Op: op, Field: string(f), Err: err}
}
