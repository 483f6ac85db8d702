package fingerprint

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports malformed call arguments. It is raised before any
// grouping work starts.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// DecodeError reports an image handle that could not be interpreted.
type DecodeError struct {
	RecordID string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode image of record %q: %v", e.RecordID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// withRecord attaches a record ID to a DecodeError that lacks one.
func withRecord(err error, id string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.RecordID == "" {
		return &DecodeError{RecordID: id, Err: de.Err}
	}
	return err
}
