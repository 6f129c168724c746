package state

import "errors"

var (
	// ErrNotFound is returned when an intent references an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an intent would create a second entity with the same id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNilIntent is returned by Apply for a nil intent.
	ErrNilIntent = errors.New("nil intent")
)
