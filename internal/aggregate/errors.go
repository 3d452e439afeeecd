package aggregate

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when no record survives filtering.
var ErrEmptyInput = errors.New("no delegation records matched")

// MalformedInputError reports a stats line whose address or count field
// could not be decoded. Line is 1-based and counts every physical line.
type MalformedInputError struct {
	Line  int
	Field string
	Err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("RIR stats is malformed at line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
