package core

import (
	"errors"
	"fmt"
)

// ErrSubjectResolution matches every SubjectResolutionError via errors.Is.
var ErrSubjectResolution = errors.New("subject resolution failed")

// SubjectResolutionError reports that a country target could not be resolved.
// It is the only error that aborts an analysis after validation.
type SubjectResolutionError struct {
	Name string
	Err  error
}

func (e *SubjectResolutionError) Error() string {
	return fmt.Sprintf("country %q not found", e.Name)
}

// Unwrap exposes the resolver error.
func (e *SubjectResolutionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSubjectResolution) match.
func (e *SubjectResolutionError) Is(target error) bool {
	return target == ErrSubjectResolution
}
