package api

import (
	"fmt"
	"net/http"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
)

// CoverageDependencies defines the team-wide read models.
type CoverageDependencies interface {
	Coverage() coverage.Ranking
	Briefing(day int) (coverage.DailyBriefing, error)
}

// CoverageHandler serves coverage and briefing requests.
type CoverageHandler struct {
	deps CoverageDependencies
}

// NewCoverageHandler creates a new coverage handler.
func NewCoverageHandler(deps CoverageDependencies) *CoverageHandler {
	return &CoverageHandler{deps: deps}
}

// HandleCoverage handles GET /coverage.
func (h *CoverageHandler) HandleCoverage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Coverage())
}

// HandleBriefing handles GET /briefing?day=N.
func (h *CoverageHandler) HandleBriefing(w http.ResponseWriter, r *http.Request) {
	day, err := queryDay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if day == 0 {
		writeError(w, fmt.Errorf("%w: day is required", ErrBadRequest))
		return
	}
	b, err := h.deps.Briefing(day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
