package api

import (
	_ "embed"
	"net/http"
)

//go:embed editor.html
var editorPage []byte

// EditorHandler serves the single-page editor.
func EditorHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(editorPage)
	})
}
