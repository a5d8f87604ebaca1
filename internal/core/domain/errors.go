package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoIndex indicates no usable index is registered
	ErrNoIndex = errors.New("no index available")

	// ErrEngine indicates a failure inside an engine pipeline.
	// Always wrapped with the underlying cause, check with errors.Is.
	ErrEngine = errors.New("engine fault")
)
