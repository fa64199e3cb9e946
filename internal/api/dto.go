package api

import (
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/session"
)

// Action is a command-bar action (aliased from the domain layer).
type Action = noteservice.Action

// StateResponse is the view model (aliased from the session layer).
type StateResponse = session.State

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// EditResponse is returned by PUT /note.
type EditResponse = noteservice.EditResult

// UpdateNoteRequest is the request body for editing the open note.
type UpdateNoteRequest struct {
	Body string `json:"body" example:"# Groceries\n- milk"`
}

// UpdateTitleRequest is the request body for renaming the open note.
type UpdateTitleRequest struct {
	Title string `json:"title" example:"Groceries" validate:"required"`
}

// SettingsRequest is the request body for PUT /settings.
type SettingsRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []catalog.SearchResult `json:"results" validate:"required"`
}
