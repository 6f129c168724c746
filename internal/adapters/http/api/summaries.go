package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

// SummaryDependencies defines the summary operations.
type SummaryDependencies interface {
	SearchSummaries(q coverage.SummaryQuery) []model.Summary
	AddSummary(ctx context.Context, in types.SummaryInput) (model.Summary, error)
	UpdateSummary(ctx context.Context, id string, in types.SummaryInput) (model.Summary, error)
	DeleteSummary(ctx context.Context, id string) error
}

// SummariesHandler handles /summaries requests.
type SummariesHandler struct {
	deps SummaryDependencies
}

// NewSummariesHandler creates a new summaries handler.
func NewSummariesHandler(deps SummaryDependencies) *SummariesHandler {
	return &SummariesHandler{deps: deps}
}

// HandleList handles GET /summaries?q=&day=&author=.
func (h *SummariesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	day, err := queryDay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SearchSummaries(coverage.SummaryQuery{
		Term:      strings.TrimSpace(r.URL.Query().Get("q")),
		Day:       day,
		AuthorIDs: queryList(r, "author"),
	}))
}

// HandleCreate handles POST /summaries.
func (h *SummariesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in types.SummaryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sum, err := h.deps.AddSummary(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

// HandleUpdate handles PUT /summaries/{id}.
func (h *SummariesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in types.SummaryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sum, err := h.deps.UpdateSummary(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleDelete handles DELETE /summaries/{id}.
func (h *SummariesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSummary(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
