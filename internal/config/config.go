// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // event_timezone must resolve on hosts without zoneinfo
)

// Durability policy names accepted by the durability key.
const (
	DurabilityWriteBehind = "write_behind"
	DurabilitySync        = "sync"
	DurabilityWriteAhead  = "write_ahead"
	DurabilityNone        = "none"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// IntentQueueSize bounds the store's intent queue.
	IntentQueueSize int `koanf:"intent_queue_size"`

	// PersistQueueSize bounds the write-behind snapshot queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// Durability selects the persistence policy: write_behind, sync, write_ahead, none.
	Durability string `koanf:"durability"`

	// DBPath is the SQLite database file. ":memory:" keeps it in process.
	DBPath string `koanf:"db_path"`

	// SnapshotID keys the persisted snapshot row.
	SnapshotID string `koanf:"snapshot_id"`

	// CatalogSource is a file path or an http(s) URL of the session feed.
	// Empty disables catalog refresh.
	CatalogSource string `koanf:"catalog_source"`

	// CatalogTimeoutMS bounds a single HTTP catalog fetch.
	CatalogTimeoutMS int `koanf:"catalog_timeout_ms"`

	// EventStartDate is day 1 of the conference, YYYY-MM-DD.
	EventStartDate string `koanf:"event_start_date"`

	// EventTimezone is the IANA zone the catalog times are rendered in.
	EventTimezone string `koanf:"event_timezone"`

	// DedupeSize sets the size of the idempotency-key cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShutdownTimeoutMS caps graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		IntentQueueSize:   1024,
		PersistQueueSize:  64,
		Durability:        DurabilityWriteBehind,
		DBPath:            "teamcoord.db",
		SnapshotID:        "main",
		CatalogSource:     "",
		CatalogTimeoutMS:  5000,
		EventStartDate:    "2025-06-03",
		EventTimezone:     "UTC",
		DedupeSize:        10_000,
		ShutdownTimeoutMS: 10_000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.IntentQueueSize <= 0:
		return fmt.Errorf("%w: intent_queue_size must be positive", ErrInvalidConfig)
	case c.PersistQueueSize <= 0:
		return fmt.Errorf("%w: persist_queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.SnapshotID == "":
		return fmt.Errorf("%w: snapshot_id must not be empty", ErrInvalidConfig)
	case c.CatalogTimeoutMS <= 0:
		return fmt.Errorf("%w: catalog_timeout_ms must be positive", ErrInvalidConfig)
	}

	switch c.Durability {
	case DurabilityWriteBehind, DurabilitySync, DurabilityWriteAhead, DurabilityNone:
	default:
		return fmt.Errorf("%w: unknown durability %q", ErrInvalidConfig, c.Durability)
	}

	if c.Durability != DurabilityNone && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}

	if _, err := c.EventStart(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves EventTimezone.
func (c *Config) Location() (*time.Location, error) {
	if c.EventTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.EventTimezone)
}

// EventStart returns midnight of day 1 in the event time zone.
func (c *Config) EventStart() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, fmt.Errorf("event_timezone: %w", err)
	}
	t, err := time.ParseInLocation(time.DateOnly, c.EventStartDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event_start_date: %w", err)
	}
	return t, nil
}

// CatalogTimeout returns CatalogTimeoutMS as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
