// Package catalog loads the published conference session list.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

// Source yields the current session catalog.
type Source interface {
	Fetch(ctx context.Context) ([]model.Session, error)
}

// New picks an HTTP source for http(s) URLs and a file source otherwise.
func New(location string, mapper Mapper, opts ...Option) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, ErrNoSource
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, mapper, opts...), nil
	default:
		return NewFileSource(location, mapper, opts...), nil
	}
}

// FileSource reads the feed from a local JSON file.
type FileSource struct {
	path   string
	mapper Mapper
	logger logger.Logger
}

func NewFileSource(path string, mapper Mapper, opts ...Option) *FileSource {
	s := resolve(opts)
	return &FileSource{path: path, mapper: mapper, logger: s.logger}
}

func (s *FileSource) Fetch(ctx context.Context) ([]model.Session, error) {
	f, err := os.Open(s.path)
	if err != nil {
		metrics.RecordCatalogFetch("error")
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	defer f.Close()
	return decode(ctx, f, s.mapper, s.logger)
}

// HTTPSource downloads the feed. Fetches are bounded by the client timeout
// and ctx.
type HTTPSource struct {
	url    string
	client *http.Client
	mapper Mapper
	logger logger.Logger
}

func NewHTTPSource(url string, mapper Mapper, opts ...Option) *HTTPSource {
	s := resolve(opts)
	return &HTTPSource{url: url, client: s.client, mapper: mapper, logger: s.logger}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		metrics.RecordCatalogFetch("error")
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordCatalogFetch("error")
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.RecordCatalogFetch("error")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return decode(ctx, resp.Body, s.mapper, s.logger)
}

// decode maps every record, skipping ones that fail validation or repeat an
// id already seen.
func decode(ctx context.Context, r io.Reader, mapper Mapper, log logger.Logger) ([]model.Session, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		metrics.RecordCatalogFetch("error")
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	sessions := make([]model.Session, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	skipped := 0
	for _, rec := range records {
		sess, err := mapper.Map(rec)
		if err == nil {
			err = sess.Validate()
		}
		if err == nil {
			if _, dup := seen[sess.ID]; dup {
				err = fmt.Errorf("duplicate session id %q", sess.ID)
			}
		}
		if err != nil {
			skipped++
			log.Warn(ctx, "catalog record skipped", logger.String("sessionID", string(rec.SessionID)), logger.Error(err))
			continue
		}
		seen[sess.ID] = struct{}{}
		sessions = append(sessions, sess)
	}

	metrics.RecordCatalogFetch("ok")
	metrics.RecordCatalogSkipped(skipped)
	metrics.UpdateCatalogSessions(len(sessions))
	log.Info(ctx, "catalog fetched", logger.Int("sessions", len(sessions)), logger.Int("skipped", skipped))
	return sessions, nil
}
