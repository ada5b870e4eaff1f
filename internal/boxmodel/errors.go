package boxmodel

import (
	"errors"
	"fmt"
)

// Assembly errors. They are returned wrapped with the offending name, so
// compare with errors.Is.
var (
	// ErrDuplicateKey indicates a registry name that is already bound.
	ErrDuplicateKey = errors.New("boxmodel: duplicate key")

	// ErrDuplicateIdentity indicates a cell already registered under another name.
	ErrDuplicateIdentity = errors.New("boxmodel: cell already registered under another name")

	// ErrDuplicateBoxLabel indicates two boxes with the same label.
	ErrDuplicateBoxLabel = errors.New("boxmodel: duplicate box label")

	// ErrDuplicateProcessLabel indicates two processes with the same label on one box.
	ErrDuplicateProcessLabel = errors.New("boxmodel: duplicate process label")

	// ErrUnknownKey indicates a registry lookup of a name never registered.
	ErrUnknownKey = errors.New("boxmodel: unknown key")

	// ErrUnknownAttribute indicates a box attribute not present at construction.
	ErrUnknownAttribute = errors.New("boxmodel: unknown attribute")

	// ErrUnknownBox indicates a box label never added to the model.
	ErrUnknownBox = errors.New("boxmodel: unknown box")

	// ErrTypeMismatch indicates a value that is not a compartment where one is expected.
	ErrTypeMismatch = errors.New("boxmodel: type mismatch")

	// ErrAlreadyRunning indicates an assembly call after the first step.
	ErrAlreadyRunning = errors.New("boxmodel: model already stepped")

	// ErrNotConfigured indicates an incomplete model setup.
	ErrNotConfigured = errors.New("boxmodel: model not configured")
)

// StepError wraps a flux failure with the step it happened in.
type StepError struct {
	Step    int
	Time    float64
	Box     string
	Process string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): box %q process %q: %v", e.Step, e.Time, e.Box, e.Process, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
