package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/folio/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Command bar.
	r.Get("/state", h.State)
	r.Post("/actions", h.Act)
	r.Put("/settings", h.UpdateSettings)

	// Open note.
	r.Get("/note", h.GetNote)
	r.Put("/note", h.UpdateNote)
	r.Put("/note/title", h.UpdateTitle)
	r.Get("/note/html", h.NoteHTML)

	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
