package api

import (
	"bytes"
	"io"
	"net/http"
)

// ExportDependencies defines the export operations.
type ExportDependencies interface {
	ExportCSV(w io.Writer) error
	ExportAgenda(w io.Writer, memberID string) error
}

// ExportHandler serves downloadable schedules.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleCSV handles GET /export/schedule.csv.
func (h *ExportHandler) HandleCSV(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.ExportCSV(&buf); err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, "text/csv; charset=utf-8", "conference-schedule.csv", buf.Bytes())
}

// HandleAgenda handles GET /export/agenda.txt?member=.
func (h *ExportHandler) HandleAgenda(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.ExportAgenda(&buf, r.URL.Query().Get("member")); err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, "text/plain; charset=utf-8", "agenda.txt", buf.Bytes())
}

// writeFile sends a rendered export. Rendering happens before the first
// byte so failures can still produce a JSON error.
func writeFile(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
