package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/coverage"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

// SessionDependencies defines the agenda operations.
type SessionDependencies interface {
	Sessions(f coverage.Filter) []model.Session
	Facets() (tracks, rooms []string)
	SessionDetail(id string) (types.SessionDetail, error)
	CreateCustomSession(ctx context.Context, creatorID string, in types.SessionInput) (model.Session, error)
	UpdateSession(ctx context.Context, id string, in types.SessionInput) (model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionsHandler handles /sessions requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type createSessionRequest struct {
	CreatorID string `json:"creatorId"`
	types.SessionInput
}

type facetsResponse struct {
	Tracks []string `json:"tracks"`
	Rooms  []string `json:"rooms"`
}

// HandleList handles GET /sessions?q=&day=&track=&room=.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	day, err := queryDay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.deps.Sessions(coverage.Filter{
		Term:  strings.TrimSpace(q.Get("q")),
		Day:   day,
		Track: q.Get("track"),
		Room:  q.Get("room"),
	}))
}

// HandleFacets handles GET /sessions/facets.
func (h *SessionsHandler) HandleFacets(w http.ResponseWriter, _ *http.Request) {
	tracks, rooms := h.deps.Facets()
	writeJSON(w, http.StatusOK, facetsResponse{Tracks: tracks, Rooms: rooms})
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.deps.SessionDetail(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleCreate handles POST /sessions. The creator is signed up for the new
// session.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.deps.CreateCustomSession(r.Context(), req.CreatorID, req.SessionInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// HandleUpdate handles PUT /sessions/{id}.
func (h *SessionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in types.SessionInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.deps.UpdateSession(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
