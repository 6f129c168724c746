package api

import (
	"context"
	"net/http"
)

// CatalogDependencies defines the catalog refresh operation.
type CatalogDependencies interface {
	RefreshCatalog(ctx context.Context) (int, error)
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type refreshResponse struct {
	Sessions int `json:"sessions"`
}

// HandleRefresh handles POST /catalog/refresh. A failed fetch leaves the
// current sessions in place.
func (h *CatalogHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.RefreshCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Sessions: n})
}
