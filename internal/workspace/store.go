// Package workspace owns the folder and note tree, creates folders and notes
// on disk, and tracks which folder and note are selected.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

// Option configures a Store.
type Option func(*Store)

// WithCatalog persists folder and note metadata to c.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Store) {
		s.catalog = c
	}
}

// WithDefaultColor sets the color given to new folders.
func WithDefaultColor(c models.RGB) Option {
	return func(s *Store) {
		s.color = c
	}
}

// Store is the in-memory tree. It is not safe for concurrent use.
type Store struct {
	fs      storage.Provider
	logger  *slog.Logger
	catalog catalog.Catalog
	color   models.RGB

	folders []*models.Folder
	view    View
	folder  int
	note    int
}

// New returns an empty store rooted at fs.Root(). Call Load to read the
// existing tree from disk.
func New(fs storage.Provider, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		fs:     fs,
		logger: logger,
		color:  models.DefaultFolderColor,
		view:   Home,
		folder: -1,
		note:   -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the workspace root.
func (s *Store) Root() string { return s.fs.Root() }

// Folders returns the folder sequence. Callers must not modify it.
func (s *Store) Folders() []*models.Folder { return s.folders }

// View returns the active view.
func (s *Store) View() View { return s.view }

// Selection returns the selected folder and note indexes, -1 for none.
func (s *Store) Selection() (folder, note int) { return s.folder, s.note }

// CurrentFolder returns the selected folder or nil.
func (s *Store) CurrentFolder() *models.Folder {
	if s.folder < 0 {
		return nil
	}
	return s.folders[s.folder]
}

// Current returns the open note or nil.
func (s *Store) Current() *models.Note {
	if s.folder < 0 || s.note < 0 {
		return nil
	}
	return s.folders[s.folder].Notes[s.note]
}

// Handle applies one command-bar action.
func (s *Store) Handle(msg Msg) error {
	switch m := msg.(type) {
	case SelectFolder:
		if m.Index < 0 || m.Index >= len(s.folders) {
			return fmt.Errorf("workspace: folder %d: %w", m.Index, apperr.ErrNotFound)
		}
		s.folder, s.note, s.view = m.Index, -1, FolderView

	case OpenNote:
		f := s.CurrentFolder()
		if f == nil {
			return fmt.Errorf("workspace: open note: %w", apperr.ErrNoFolder)
		}
		if m.Index < 0 || m.Index >= len(f.Notes) {
			return fmt.Errorf("workspace: note %d: %w", m.Index, apperr.ErrNotFound)
		}
		s.note, s.view = m.Index, NoteView
		s.refresh(f.Notes[m.Index])

	case SelectHome:
		s.folder, s.note, s.view = -1, -1, Home

	case GoBack:
		switch s.view {
		case NoteView:
			s.note, s.view = -1, FolderView
		default:
			s.folder, s.note, s.view = -1, -1, Home
		}

	case OpenSettings:
		s.folder, s.note, s.view = -1, -1, SettingsView

	case CreateItem:
		if s.CurrentFolder() != nil {
			_, err := s.CreateNote()
			return err
		}
		_, err := s.CreateFolder()
		return err

	case RenameFolder:
		f, err := s.folderAt(m.Index)
		if err != nil {
			return err
		}
		f.Name = m.Name
		s.recordFolder(m.Index)

	case SetFolderColor:
		f, err := s.folderAt(m.Index)
		if err != nil {
			return err
		}
		f.Color = m.Color
		s.recordFolder(m.Index)

	default:
		return fmt.Errorf("workspace: unknown action %T", msg)
	}
	return nil
}

// CreateFolder makes the directory "Folder <n>" under the root with the
// next unused n and appends it. The selection is unchanged.
func (s *Store) CreateFolder() (*models.Folder, error) {
	n := len(s.folders) + 1
	for s.fs.Exists(models.DefaultFolderName(n)) {
		n++
	}
	name := models.DefaultFolderName(n)
	path := filepath.Join(s.fs.Root(), name)
	if err := s.fs.Mkdir(path); err != nil {
		return nil, fmt.Errorf("workspace: create folder: %w", err)
	}

	f := models.NewFolder(name, s.color, path)
	s.folders = append(s.folders, f)
	s.recordFolder(len(s.folders) - 1)

	s.logger.Info("workspace: folder created", slog.String("path", path))
	return f, nil
}

// CreateNote creates an empty note_<n>.md in the selected folder, appends it
// and opens it. n is the smallest number from len(notes)+1 up that is taken
// neither in the folder nor on disk.
func (s *Store) CreateNote() (*models.Note, error) {
	f := s.CurrentFolder()
	if f == nil {
		return nil, fmt.Errorf("workspace: create note: %w", apperr.ErrNoFolder)
	}

	taken := make(map[string]struct{}, len(f.Notes))
	for _, n := range f.Notes {
		taken[filepath.Base(n.Path)] = struct{}{}
	}

	n := len(f.Notes) + 1
	var path string
	for {
		name := models.NoteFileName(n)
		path = filepath.Join(f.Path, name)
		if _, ok := taken[name]; !ok {
			err := s.fs.Create(path)
			if err == nil {
				break
			}
			if !errors.Is(err, apperr.ErrAlreadyExists) {
				return nil, fmt.Errorf("workspace: create note: %w", err)
			}
		}
		n++
	}

	note := &models.Note{Title: models.DefaultNoteTitle(n), Path: path}
	f.Notes = append(f.Notes, note)
	s.note, s.view = len(f.Notes)-1, NoteView
	s.recordNote(f, note)

	s.logger.Info("workspace: note created", slog.String("path", path))
	return note, nil
}

// SetBody replaces the body of the open note.
func (s *Store) SetBody(body string) error {
	n := s.Current()
	if n == nil {
		return apperr.ErrNoNote
	}
	n.Body = body
	return nil
}

// SetTitle renames the open note.
func (s *Store) SetTitle(title string) error {
	n := s.Current()
	if n == nil {
		return apperr.ErrNoNote
	}
	n.Title = title
	s.recordNote(s.CurrentFolder(), n)
	return nil
}

// Load rebuilds the tree from disk. Every subdirectory of the root is a
// folder and every note_<n>.md inside it a note, ordered by n. Names, colors
// and titles come from the catalog when it has them. The selection is
// reset.
func (s *Store) Load() error {
	dirs, err := s.fs.Dirs("")
	if err != nil {
		return fmt.Errorf("workspace: load: %w", err)
	}

	known := make(map[string]catalog.FolderRow)
	if s.catalog != nil {
		rows, err := s.catalog.Folders()
		if err != nil {
			s.logger.Warn("workspace: catalog folders", slog.String("error", err.Error()))
		}
		for _, r := range rows {
			known[r.Path] = r
		}
	}

	folders := make([]*models.Folder, 0, len(dirs))
	for _, dir := range dirs {
		f := models.NewFolder(filepath.Base(dir), s.color, dir)
		if r, ok := known[dir]; ok {
			f.Name, f.Color = r.Name, r.Color
		}
		notes, err := s.loadNotes(dir)
		if err != nil {
			return err
		}
		f.Notes = notes
		folders = append(folders, f)
	}

	// Cataloged folders keep their saved order; new ones follow by name.
	sort.SliceStable(folders, func(i, j int) bool {
		pi, iok := known[folders[i].Path]
		pj, jok := known[folders[j].Path]
		switch {
		case iok && jok:
			return pi.Position < pj.Position
		default:
			return iok && !jok
		}
	})

	s.folders = folders
	s.folder, s.note, s.view = -1, -1, Home

	s.logger.Info("workspace: loaded",
		slog.String("root", s.fs.Root()),
		slog.Int("folders", len(folders)))
	return nil
}

func (s *Store) loadNotes(dir string) ([]*models.Note, error) {
	metas, err := s.fs.List(dir)
	if err != nil {
		return nil, fmt.Errorf("workspace: load %s: %w", dir, err)
	}

	type numbered struct {
		n    int
		path string
	}
	var found []numbered
	for _, m := range metas {
		if n, ok := models.NoteNumber(m.Path); ok {
			found = append(found, numbered{n: n, path: m.Path})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	notes := make([]*models.Note, 0, len(found))
	for _, f := range found {
		data, err := s.fs.Read(f.path)
		if err != nil {
			return nil, fmt.Errorf("workspace: load %s: %w", f.path, err)
		}
		note := &models.Note{Title: models.DefaultNoteTitle(f.n), Body: string(data), Path: f.path}
		if s.catalog != nil {
			if row, err := s.catalog.GetNote(f.path); err == nil && row.Title != "" {
				note.Title = row.Title
			}
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// refresh re-reads a note's body from disk before it is opened. Changes made
// while the note was not watched would otherwise be missed.
func (s *Store) refresh(n *models.Note) {
	data, err := s.fs.Read(n.Path)
	if err != nil {
		s.logger.Warn("workspace: refresh failed",
			slog.String("path", n.Path),
			slog.String("error", err.Error()))
		return
	}
	n.Body = string(data)
}

func (s *Store) folderAt(i int) (*models.Folder, error) {
	if i < 0 || i >= len(s.folders) {
		return nil, fmt.Errorf("workspace: folder %d: %w", i, apperr.ErrNotFound)
	}
	return s.folders[i], nil
}

func (s *Store) recordFolder(i int) {
	if s.catalog == nil {
		return
	}
	f := s.folders[i]
	err := s.catalog.UpsertFolder(catalog.FolderRow{
		Path:     f.Path,
		Name:     f.Name,
		Color:    f.Color,
		Position: i,
	})
	if err != nil {
		s.logger.Warn("workspace: catalog folder", slog.String("path", f.Path), slog.String("error", err.Error()))
	}
}

func (s *Store) recordNote(f *models.Folder, n *models.Note) {
	if s.catalog == nil {
		return
	}
	if err := catalog.Record(s.catalog, f.Path, n); err != nil {
		s.logger.Warn("workspace: catalog note", slog.String("path", n.Path), slog.String("error", err.Error()))
	}
}
