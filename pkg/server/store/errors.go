package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a uniqueness constraint would be violated.
var ErrConflict = errors.New("record conflicts with an existing one")
