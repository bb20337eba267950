package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnreadable     = errors.New("file is not readable")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrInvalidCount   = errors.New("invalid count")
)

// LoadError reports a file that could not be loaded into the index.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("can't load file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrUnreadable
}

// NewLoadError wraps err as a LoadError for path.
func NewLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Err: err}
}

// InvalidCountError is returned when a count argument is not a non-negative integer.
type InvalidCountError struct {
	Value string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid number of suggestions: %q", e.Value)
}

func (e *InvalidCountError) Is(target error) bool {
	return target == ErrInvalidCount
}
