// Package seed drives a running coordination service over HTTP: it creates
// team members, signs them up for sessions concurrently and checks that the
// coverage the service reports matches the attendance it holds.
package seed

import (
	"runtime"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultMembers = 5
	defaultToggles = 40
	defaultReplays = 5
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	retryBackoff   = 50 * time.Millisecond
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL string        // service root, without trailing slash
	Members int           // members to create
	Toggles int           // distinct session/member pairs to sign up
	Replays int           // toggles re-sent with their original idempotency key; negative picks the default
	Workers int           // concurrent requests
	Timeout time.Duration // per-request timeout
	Seed    uint64        // zero picks a random seed
	Verbose bool
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Members <= 0 {
		c.Members = defaultMembers
	}
	if c.Toggles <= 0 {
		c.Toggles = defaultToggles
	}
	if c.Replays < 0 {
		c.Replays = defaultReplays
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Stats summarises a run.
type Stats struct {
	MembersCreated   int
	TogglesSubmitted int
	TogglesApplied   int
	Duplicates       int
	Retries          int
	Failed           int
	SessionsCovered  int
	Duration         time.Duration
}
