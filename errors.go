package veil

import (
	"errors"
	"fmt"
)

// InvalidImageError indicates an input image that is missing, undecodable,
// or zero-dimensioned.
type InvalidImageError struct {
	Path string
	Err  error
}

func (e *InvalidImageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("veil: invalid image %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("veil: invalid image: %v", e.Err)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// DimensionMismatchError indicates a contract violation between the message
// bitmap and the share grids. It is not recoverable.
type DimensionMismatchError struct {
	Op     string
	Detail string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("veil: %s: %s", e.Op, e.Detail)
}

// IsInvalidImage reports whether err is an InvalidImageError.
func IsInvalidImage(err error) bool {
	var e *InvalidImageError
	return errors.As(err, &e)
}

// IsDimensionMismatch reports whether err is a DimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var e *DimensionMismatchError
	return errors.As(err, &e)
}
