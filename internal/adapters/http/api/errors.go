package api

import (
	"errors"
	"net/http"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/catalog"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/export"
	service "github.com/edytawrobel/team-coords-aiengineer/internal/app"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/store"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor translates domain and service errors into an HTTP status and a
// stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidMember),
		errors.Is(err, model.ErrInvalidSession),
		errors.Is(err, model.ErrInvalidNote),
		errors.Is(err, model.ErrInvalidSummary),
		errors.Is(err, model.ErrInvalidClock):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, state.ErrNotFound),
		errors.Is(err, export.ErrUnknownMember):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, state.ErrDuplicateID),
		errors.Is(err, service.ErrCatalogSession),
		errors.Is(err, catalog.ErrNoSource):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBackpressure),
		errors.Is(err, store.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, store.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
