package api

import (
	"context"
	"net/http"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
)

// NoteDependencies defines the note operations.
type NoteDependencies interface {
	Notes(sessionID string) []model.Note
	AddNote(ctx context.Context, sessionID, memberID, content string) (model.Note, error)
	UpdateNote(ctx context.Context, id, content string) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// NotesHandler handles /notes requests.
type NotesHandler struct {
	deps NoteDependencies
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(deps NoteDependencies) *NotesHandler {
	return &NotesHandler{deps: deps}
}

type noteRequest struct {
	SessionID string `json:"sessionId"`
	MemberID  string `json:"memberId"`
	Content   string `json:"content"`
}

// HandleList handles GET /notes?session=.
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Notes(r.URL.Query().Get("session")))
}

// HandleCreate handles POST /notes.
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := h.deps.AddNote(r.Context(), req.SessionID, req.MemberID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// HandleUpdate handles PUT /notes/{id}. Only the content changes.
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := h.deps.UpdateNote(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// HandleDelete handles DELETE /notes/{id}.
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteNote(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
