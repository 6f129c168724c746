package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrClosed        = errors.New("repository closed")
	ErrCorruptRecord = errors.New("corrupt stored record")
)
