package flow

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid quiz input")
	ErrIllegalTransition = errors.New("action not allowed in current view")
	ErrBusy              = errors.New("a request is already in progress")
	ErrStale             = errors.New("result discarded: quiz flow moved on")
	ErrNoFailedSubmit    = errors.New("sample data is only offered after a failed submission")
)

// IncompleteError rejects a submission that still has unanswered questions.
type IncompleteError struct {
	Missing []int64
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("Please answer all %d remaining questions before submitting.", len(e.Missing))
}

func (e *IncompleteError) Unwrap() error { return ErrValidation }

// ActionError is a failed generate or submit call, with the message to show the user.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

func illegal(action string, view View) error {
	return fmt.Errorf("%s from %s view: %w", action, view, ErrIllegalTransition)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
