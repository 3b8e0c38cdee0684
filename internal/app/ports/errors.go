package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrCorrupt marks a stored record that exists but cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")
)
