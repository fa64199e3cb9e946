// Package session ties the store, the file synchronizer, the compiler and
// the exporter together behind a single-threaded API. A Session is driven by
// exactly one goroutine, normally a Loop.
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/filesync"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/styled"
	"github.com/starford/folio/internal/workspace"
)

// Option configures a Session.
type Option func(*Session)

// WithCatalog records edits and serves search from c.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Session) {
		s.catalog = c
	}
}

// WithDarkMode sets the initial palette.
func WithDarkMode(dark bool) Option {
	return func(s *Session) {
		s.dark = dark
	}
}

// Session is not safe for concurrent use.
type Session struct {
	store    *workspace.Store
	sync     *filesync.Synchronizer
	exporter *export.Exporter
	catalog  catalog.Catalog
	logger   *slog.Logger
	dark     bool
}

// New creates a session over an already loaded store.
func New(store *workspace.Store, sync *filesync.Synchronizer, exporter *export.Exporter, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		store:    store,
		sync:     sync,
		exporter: exporter,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Session) Store() *workspace.Store { return s.store }

// Current returns the open note or nil.
func (s *Session) Current() *models.Note { return s.store.Current() }

// DarkMode reports the active palette.
func (s *Session) DarkMode() bool { return s.dark }

// Dispatch applies a command-bar action and points the watch at whatever
// note is open afterwards.
func (s *Session) Dispatch(msg workspace.Msg) error {
	err := s.store.Handle(msg)
	s.syncWatch()
	return err
}

// syncWatch retargets the watch to the open note, or drops it. A watch that
// cannot be set up leaves the note editable without live reload.
func (s *Session) syncWatch() {
	n := s.store.Current()
	if n == nil {
		if err := s.sync.Close(); err != nil {
			s.logger.Warn("session: close watch", slog.String("error", err.Error()))
		}
		return
	}
	if err := s.sync.Open(n.Path); err != nil {
		s.logger.Warn("session: live reload disabled",
			slog.String("path", n.Path),
			slog.String("error", err.Error()))
	}
}

// Edit replaces the open note's body and writes it through. A failed write
// keeps the new body in memory and returns an error wrapping
// apperr.ErrWriteFailed.
func (s *Session) Edit(body string) error {
	if err := s.store.SetBody(body); err != nil {
		return err
	}
	n := s.store.Current()

	s.record(n)

	if err := s.sync.Commit(n.Path, body); err != nil {
		s.logger.Warn("session: write-through failed",
			slog.String("path", n.Path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", apperr.ErrWriteFailed, err)
	}
	return nil
}

// SetTitle renames the open note.
func (s *Session) SetTitle(title string) error {
	return s.store.SetTitle(title)
}

// SetDarkMode switches the palette used by Render.
func (s *Session) SetDarkMode(dark bool) {
	s.dark = dark
}

// StyleContext returns the context Render compiles against.
func (s *Session) StyleContext() styled.StyleContext {
	return styled.DefaultContext(s.dark)
}

// Render compiles the open note.
func (s *Session) Render() (styled.Result, error) {
	n := s.store.Current()
	if n == nil {
		return styled.Result{}, apperr.ErrNoNote
	}
	return styled.Compile(n.Body, s.StyleContext()), nil
}

// Frame runs one drain cycle and applies at most one external change.
func (s *Session) Frame() (reloaded bool) {
	n := s.store.Current()
	if n == nil {
		return false
	}
	body, changed := s.sync.Drain(n.Body)
	if !changed {
		return false
	}
	n.Body = body
	s.record(n)
	if err := s.sync.WriteHTML(n.Path, body); err != nil {
		s.logger.Warn("session: export after reload failed",
			slog.String("path", n.Path),
			slog.String("error", err.Error()))
	}
	return true
}

// Search looks notes up in the catalog, or scans the loaded notes when no
// catalog is configured.
func (s *Session) Search(query string, limit int) ([]catalog.SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if s.catalog != nil {
		return s.catalog.Search(query, limit)
	}

	q := strings.ToLower(query)
	var out []catalog.SearchResult
	for _, f := range s.store.Folders() {
		for _, n := range f.Notes {
			if len(out) == limit {
				return out, nil
			}
			if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Body), q) {
				out = append(out, catalog.SearchResult{
					Path:    n.Path,
					Folder:  f.Path,
					Title:   n.Title,
					Snippet: snippet(n.Body),
				})
			}
		}
	}
	return out, nil
}

// Close drops the watch.
func (s *Session) Close() error {
	return s.sync.Close()
}

func (s *Session) record(n *models.Note) {
	if s.catalog == nil {
		return
	}
	if err := catalog.Record(s.catalog, s.store.CurrentFolder().Path, n); err != nil {
		s.logger.Warn("session: catalog note",
			slog.String("path", n.Path),
			slog.String("error", err.Error()))
	}
}

func snippet(body string) string {
	r := []rune(body)
	if len(r) > 200 {
		r = r[:200]
	}
	return string(r)
}
