package processor

import "fmt"

type ErrAlreadyInitialized struct{}

func (ErrAlreadyInitialized) Error() string {
	return "the engine is already initialized"
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the engine is closed"
}

type ErrUnableToStartLoop struct {
	Loop LoopID
	Err  error
}

func (e ErrUnableToStartLoop) Error() string {
	return fmt.Sprintf("unable to start the %s loop: %v", e.Loop, e.Err)
}

func (e ErrUnableToStartLoop) Unwrap() error {
	return e.Err
}

// ErrLoopFailed is published on ErrorChan when a loop exits due to
// an irrecoverable error.
type ErrLoopFailed struct {
	Loop LoopID
	Err  error
}

func (e ErrLoopFailed) Error() string {
	return fmt.Sprintf("the %s loop failed: %v", e.Loop, e.Err)
}

func (e ErrLoopFailed) Unwrap() error {
	return e.Err
}
