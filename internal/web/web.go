// Package web serves the embedded browser UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Static returns the UI assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Index serves the single page at GET /.
func Index() http.HandlerFunc {
	page, err := fs.ReadFile(Static(), "index.html")
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	}
}

// Assets serves GET /static/*.
func Assets() http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(Static()))
}
