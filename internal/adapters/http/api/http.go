// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider
	TeamDependencies
	SessionDependencies
	AttendanceDependencies
	CoverageDependencies
	NoteDependencies
	SummaryDependencies
	CatalogDependencies
	ExportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	teamHandler       *TeamHandler
	sessionsHandler   *SessionsHandler
	attendanceHandler *AttendanceHandler
	coverageHandler   *CoverageHandler
	notesHandler      *NotesHandler
	summariesHandler  *SummariesHandler
	catalogHandler    *CatalogHandler
	exportHandler     *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		teamHandler:       NewTeamHandler(deps),
		sessionsHandler:   NewSessionsHandler(deps),
		attendanceHandler: NewAttendanceHandler(deps),
		coverageHandler:   NewCoverageHandler(deps),
		notesHandler:      NewNotesHandler(deps),
		summariesHandler:  NewSummariesHandler(deps),
		catalogHandler:    NewCatalogHandler(deps),
		exportHandler:     NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /team", "team", s.teamHandler.HandleList)
	route("POST /team", "team", s.teamHandler.HandleCreate)
	route("PUT /team/{id}", "team_member", s.teamHandler.HandleUpdate)
	route("DELETE /team/{id}", "team_member", s.teamHandler.HandleDelete)
	route("GET /team/{id}/sessions", "team_member_sessions", s.teamHandler.HandleSessions)
	route("GET /team/{id}/conflicts", "team_member_conflicts", s.teamHandler.HandleConflicts)

	route("GET /sessions", "sessions", s.sessionsHandler.HandleList)
	route("POST /sessions", "sessions", s.sessionsHandler.HandleCreate)
	route("GET /sessions/facets", "session_facets", s.sessionsHandler.HandleFacets)
	route("GET /sessions/{id}", "session", s.sessionsHandler.HandleGet)
	route("PUT /sessions/{id}", "session", s.sessionsHandler.HandleUpdate)
	route("DELETE /sessions/{id}", "session", s.sessionsHandler.HandleDelete)

	route("POST /attendance/toggle", "attendance_toggle", s.attendanceHandler.HandleToggle)

	route("GET /coverage", "coverage", s.coverageHandler.HandleCoverage)
	route("GET /briefing", "briefing", s.coverageHandler.HandleBriefing)

	route("GET /notes", "notes", s.notesHandler.HandleList)
	route("POST /notes", "notes", s.notesHandler.HandleCreate)
	route("PUT /notes/{id}", "note", s.notesHandler.HandleUpdate)
	route("DELETE /notes/{id}", "note", s.notesHandler.HandleDelete)

	route("GET /summaries", "summaries", s.summariesHandler.HandleList)
	route("POST /summaries", "summaries", s.summariesHandler.HandleCreate)
	route("PUT /summaries/{id}", "summary", s.summariesHandler.HandleUpdate)
	route("DELETE /summaries/{id}", "summary", s.summariesHandler.HandleDelete)

	route("POST /catalog/refresh", "catalog_refresh", s.catalogHandler.HandleRefresh)

	route("GET /export/schedule.csv", "export_csv", s.exportHandler.HandleCSV)
	route("GET /export/agenda.txt", "export_agenda", s.exportHandler.HandleAgenda)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and writes the error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// queryDay parses an optional day parameter; zero means unset.
func queryDay(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("day"))
	if raw == "" {
		return 0, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 0 {
		return 0, fmt.Errorf("%w: invalid day %q", ErrBadRequest, raw)
	}
	return day, nil
}

// queryList accepts both repeated and comma-separated values.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
