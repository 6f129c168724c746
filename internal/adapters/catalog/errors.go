package catalog

import "errors"

var (
	ErrNoSource         = errors.New("no catalog source configured")
	ErrUnexpectedStatus = errors.New("unexpected catalog response status")
	ErrDecode           = errors.New("decode catalog feed")
)
