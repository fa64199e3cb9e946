package session

import (
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/filesync"
)

// NoteState describes one note in a Snapshot.
type NoteState struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// FolderState describes one folder in a Snapshot.
type FolderState struct {
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Path  string      `json:"path"`
	Notes []NoteState `json:"notes"`
}

// State is the view model the surfaces render.
type State struct {
	View           string        `json:"view"`
	Root           string        `json:"root"`
	DarkMode       bool          `json:"dark_mode"`
	Folders        []FolderState `json:"folders"`
	SelectedFolder int           `json:"selected_folder"`
	SelectedNote   int           `json:"selected_note"`
	Watching       bool          `json:"watching"`
	WatchPath      string        `json:"watch_path,omitempty"`
}

// Snapshot captures the current state. The result shares nothing with the
// session.
func (s *Session) Snapshot() State {
	folder, note := s.store.Selection()
	st := State{
		View:           s.store.View().String(),
		Root:           s.store.Root(),
		DarkMode:       s.dark,
		Folders:        make([]FolderState, 0, len(s.store.Folders())),
		SelectedFolder: folder,
		SelectedNote:   note,
		Watching:       s.sync.State() == filesync.Watching,
		WatchPath:      s.sync.Path(),
	}
	for _, f := range s.store.Folders() {
		fs := FolderState{
			Name:  f.Name,
			Color: f.Color.Hex(),
			Path:  f.Path,
			Notes: make([]NoteState, 0, len(f.Notes)),
		}
		for _, n := range f.Notes {
			fs.Notes = append(fs.Notes, NoteState{Title: n.Title, Path: n.Path})
		}
		st.Folders = append(st.Folders, fs)
	}
	return st
}

// ExportCurrent renders the open note to HTML.
func (s *Session) ExportCurrent() (string, error) {
	n := s.store.Current()
	if n == nil {
		return "", apperr.ErrNoNote
	}
	return s.exporter.Export(n.Body), nil
}
