package store

import "errors"

var (
	// ErrBackpressure is returned when the intent queue is full.
	ErrBackpressure = errors.New("intent queue full")
	// ErrStopped is returned once the store no longer accepts intents.
	ErrStopped = errors.New("store stopped")
)
