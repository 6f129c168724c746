package model

import "errors"

// Validation errors. Callers match them with errors.Is.
var (
	ErrInvalidClock   = errors.New("invalid clock time")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidMember  = errors.New("invalid team member")
	ErrInvalidNote    = errors.New("invalid note")
	ErrInvalidSummary = errors.New("invalid summary")
)
