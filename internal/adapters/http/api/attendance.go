package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

// IdempotencyKeyHeader lets clients retry a toggle without flipping twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// AttendanceDependencies defines the attendance operation.
type AttendanceDependencies interface {
	ToggleAttendance(ctx context.Context, sessionID, memberID, key string) (types.Toggle, error)
}

// AttendanceHandler handles attendance requests.
type AttendanceHandler struct {
	deps AttendanceDependencies
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(deps AttendanceDependencies) *AttendanceHandler {
	return &AttendanceHandler{deps: deps}
}

type toggleRequest struct {
	SessionID string `json:"sessionId"`
	MemberID  string `json:"memberId"`
}

func (t toggleRequest) validate() error {
	switch {
	case strings.TrimSpace(t.SessionID) == "":
		return fmt.Errorf("%w: missing sessionId", ErrBadRequest)
	case strings.TrimSpace(t.MemberID) == "":
		return fmt.Errorf("%w: missing memberId", ErrBadRequest)
	}
	return nil
}

// HandleToggle handles POST /attendance/toggle. A repeated Idempotency-Key
// returns 200 with the current state and duplicate=true.
func (h *AttendanceHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	res, err := h.deps.ToggleAttendance(r.Context(), req.SessionID, req.MemberID, key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
