package domain

import "errors"

// ErrEmptyInput is the sentinel matched by EmptyInputError.
var ErrEmptyInput = errors.New("Empty ticket text provided")

// EmptyInputError is returned when ticket text is empty or whitespace-only.
// It is the only input the pipeline rejects.
type EmptyInputError struct {
	// Length is the byte length of the rejected input.
	Length int
}

// Error implements the error interface.
func (e *EmptyInputError) Error() string {
	return ErrEmptyInput.Error()
}

// Is matches ErrEmptyInput.
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// IsEmptyInput reports whether err is an empty-input rejection.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
