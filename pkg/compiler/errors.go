package compiler

import (
	"errors"
	"fmt"
)

// ErrSkip matches every *SkipError.
var ErrSkip = errors.New("skipped")

// ErrInconsistent matches every *InconsistencyError.
var ErrInconsistent = errors.New("inconsistent model")

// ErrEmptyIdentifier is returned for labels without a single identifier
// character.
var ErrEmptyIdentifier = errors.New("label has no identifier characters")

// SkipError reports a point or a whole model that cannot be represented.
// Skips are expected and never abort a run.
type SkipError struct {
	Subject string
	Reason  string
}

var _ error = (*SkipError)(nil)

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %s: %s", e.Subject, e.Reason)
}

// Is makes errors.Is(err, ErrSkip) hold.
func (e *SkipError) Is(target error) bool {
	return target == ErrSkip
}

// InconsistencyError reports a model description the compiler cannot route
// around. It aborts the one model it occurs in.
type InconsistencyError struct {
	ModelID int
	Message string
}

var _ error = (*InconsistencyError)(nil)

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("model %d: %s", e.ModelID, e.Message)
}

// Is makes errors.Is(err, ErrInconsistent) hold.
func (e *InconsistencyError) Is(target error) bool {
	return target == ErrInconsistent
}

func skipf(subject, format string, args ...any) error {
	return &SkipError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

func inconsistentf(modelID int, format string, args ...any) error {
	return &InconsistencyError{ModelID: modelID, Message: fmt.Sprintf(format, args...)}
}
