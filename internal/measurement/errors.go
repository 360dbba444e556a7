package measurement

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by errors returned from Parse when an
	// entry is not a number.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange is matched by errors returned from Validate when a
	// value lies outside its safe interval.
	ErrOutOfRange = errors.New("out of range")
)

// InputError reports the first entry that could not be parsed.
type InputError struct {
	Field Field
	Text  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s = %q is not a number (all entries must be numeric)",
		ErrInvalidInput, e.Field, e.Text)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// RangeError reports the first field found outside its safe interval.
type RangeError struct {
	Field Field
	Value float64
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s = %s is outside the safe range (%s)",
		ErrOutOfRange, e.Field, FormatValue(e.Value), e.Range)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
