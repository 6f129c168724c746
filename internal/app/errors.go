package service

import "errors"

var (
	// ErrNotStarted is returned by use cases called before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidInput marks request data rejected before reaching the store.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCatalogSession is returned when editing a session the catalog owns.
	ErrCatalogSession = errors.New("catalog sessions are read-only")
)
