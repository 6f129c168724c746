package catalog

import (
	"net/http"
	"time"

	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
)

type settings struct {
	timeout time.Duration
	client  *http.Client
	logger  logger.Logger
}

// Option configures a Source.
type Option func(*settings)

// WithTimeout bounds a single HTTP fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient replaces the default client. Its own timeout is kept.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func resolve(opts []Option) settings {
	s := settings{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("catalog")
	}
	return s
}
