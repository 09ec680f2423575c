package repository

import "errors"

var (
	// ErrNotFound is returned by conditional writes when the target row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleState is returned when a conditional write finds the row in a
	// different status than the caller expected.
	ErrStaleState = errors.New("record was modified concurrently")
)
