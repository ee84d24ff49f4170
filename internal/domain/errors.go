package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot is returned when the scan root does not exist.
	ErrInvalidRoot = errors.New("root path does not exist")
	// ErrNotDirectory is returned when the scan root is not a directory.
	ErrNotDirectory = errors.New("root path is not a directory")
	// ErrUnknownCategory is returned for an unrecognized category name.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrRunLocked is returned when another run is already cleaning the same tree.
	ErrRunLocked = errors.New("another cleaning run holds the lock for this tree")
)

// TraversalError reports a directory the scanner could not read.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// SizingError reports an entry whose contribution to a candidate's size is unknown.
type SizingError struct {
	Path string
	Err  error
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("cannot size %s: %v", e.Path, e.Err)
}

func (e *SizingError) Unwrap() error { return e.Err }

// DeletionError reports a partial or total failure to remove a candidate.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to remove %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
