package codec

import (
	"errors"
	"fmt"
)

type ErrNotImplemented struct {
	Err error
}

func (e ErrNotImplemented) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("not implemented: %v", e.Err)
	}
	return "not implemented"
}

func (e ErrNotImplemented) Unwrap() error {
	return e.Err
}

// ErrBusy means the transform cannot make progress right now and the same
// call should be repeated.
type ErrBusy struct {
	Reason string
}

func (e ErrBusy) Error() string {
	if e.Reason != "" {
		return "busy: " + e.Reason
	}
	return "busy"
}

type ErrOutOfMemory struct {
	Size int
}

func (e ErrOutOfMemory) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("out of memory: unable to allocate %d bytes", e.Size)
	}
	return "out of memory"
}

// IsBusy returns true if err (or anything it wraps) is ErrBusy.
func IsBusy(err error) bool {
	var busy ErrBusy
	return errors.As(err, &busy)
}
