// Package site serves the landing page that links the API surfaces.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page routes to mux. Only the exact root and
// its assets are claimed so unknown API paths still 404.
//
//	GET /          -> index.html
//	GET /site.css  -> stylesheet
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /site.css", files)
}
