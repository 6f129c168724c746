package seed

import "errors"

var (
	// ErrUnhealthy is returned when the health probe does not answer 200.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrUnexpectedStatus is returned for any other non-success response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNoSessions is returned when the agenda is empty.
	ErrNoSessions = errors.New("no sessions on the agenda")
	// ErrMismatch is returned when verification finds an inconsistency.
	ErrMismatch = errors.New("verification mismatch")
)
