package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/starford/folio/internal/noteservice"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// State handles GET /api/state.
//
//	@Summary		Current view, folders and selection
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context())
	if err != nil {
		writeError(w, "state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Act handles POST /api/actions.
//
//	@Summary		Apply a command-bar action
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			body	body		Action	true	"Action to apply"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/actions [post]
func (h *Handler) Act(w http.ResponseWriter, r *http.Request) {
	var a Action
	if !decodeBody(w, r, &a) {
		return
	}
	st, err := h.svc.Act(r.Context(), a)
	if err != nil {
		writeError(w, "action "+a.Type, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary		Change editor settings
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SettingsRequest	true	"Settings"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DarkMode == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("dark_mode is required"))
		return
	}
	st, err := h.svc.SetDarkMode(r.Context(), *req.DarkMode)
	if err != nil {
		writeError(w, "settings", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetNote handles GET /api/note.
//
//	@Summary		Get the open note with its styled runs
//	@Tags			note
//	@Produce		json
//	@Success		200	{object}	NoteDetail
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/note [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Note(r.Context())
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/note.
//
//	@Summary		Replace the open note's body
//	@Description	A failed write keeps the edit in memory and sets "warning".
//	@Tags			note
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	UpdateNoteRequest	true	"New body"
//	@Success		200			{object}	EditResponse
//	@Failure		400			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/note [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	res, err := h.svc.Edit(r.Context(), req.Body, ifMatch)
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(res.Note.Checksum))
	writeJSON(w, http.StatusOK, res)
}

// UpdateTitle handles PUT /api/note/title.
//
//	@Summary		Rename the open note
//	@Tags			note
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateTitleRequest	true	"New title"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/note/title [put]
func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	note, err := h.svc.SetTitle(r.Context(), req.Title)
	if err != nil {
		writeError(w, "update title", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// NoteHTML handles GET /api/note/html.
//
//	@Summary		Export the open note as an HTML fragment
//	@Tags			note
//	@Produce		html
//	@Success		200	{string}	string
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/note/html [get]
func (h *Handler) NoteHTML(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.HTML(r.Context())
	if err != nil {
		writeError(w, "export note", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// Search handles GET /api/search.
//
//	@Summary		Search notes by title, body or tag
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
