package durability

import "errors"

var (
	// ErrUnknownPolicy is returned by New for an unrecognised policy name.
	ErrUnknownPolicy = errors.New("unknown durability policy")
	// ErrPersistFailed rejects an intent under write-ahead.
	ErrPersistFailed = errors.New("persist failed")
	ErrClosed        = errors.New("durability policy closed")
)
