package api

import (
	"context"
	"net/http"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

// TeamDependencies defines the member operations the team routes need.
type TeamDependencies interface {
	Team() []model.TeamMember
	AddMember(ctx context.Context, in types.MemberInput) (model.TeamMember, error)
	UpdateMember(ctx context.Context, id string, in types.MemberInput) (model.TeamMember, error)
	RemoveMember(ctx context.Context, id string) error
	MemberSessions(memberID string) ([]model.Session, error)
	MemberConflicts(memberID string) ([]coverage.ConflictPair, error)
}

// TeamHandler handles /team requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleList handles GET /team.
func (h *TeamHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Team())
}

// HandleCreate handles POST /team.
func (h *TeamHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in types.MemberInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.deps.AddMember(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleUpdate handles PUT /team/{id}.
func (h *TeamHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in types.MemberInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.deps.UpdateMember(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /team/{id}.
func (h *TeamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSessions handles GET /team/{id}/sessions.
func (h *TeamHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.deps.MemberSessions(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleConflicts handles GET /team/{id}/conflicts.
func (h *TeamHandler) HandleConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.deps.MemberConflicts(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conflicts)
}
