// Package noteservice is the context-aware facade the HTTP and MCP surfaces
// share. Every call is executed on the session loop, and results are copied
// out so callers never hold session state.
package noteservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/session"
	"github.com/starford/folio/internal/styled"
)

// Runner executes a function on the goroutine that owns the session.
// *session.Loop implements it.
type Runner interface {
	Do(ctx context.Context, fn func(*session.Session) error) error
}

// NoteDetail is the full representation of the open note.
type NoteDetail struct {
	Path     string       `json:"path"`
	Title    string       `json:"title"`
	Body     string       `json:"body"`
	Checksum string       `json:"checksum"`
	Runs     []styled.Run `json:"runs"`
}

// EditResult is returned after an edit. Warning is set when the edit was
// kept in memory but could not be written to disk.
type EditResult struct {
	Note    NoteDetail `json:"note"`
	Warning string     `json:"warning,omitempty"`
}

// Event kinds passed to a Notifier.
const (
	EventSaved   = "saved"
	EventCreated = "created"
)

// Notifier is told about notes changed through the service.
type Notifier func(kind, path string)

// Option configures a Service.
type Option func(*Service)

// WithNotifier registers fn for saved and created notes.
func WithNotifier(fn Notifier) Option {
	return func(s *Service) {
		s.notify = fn
	}
}

// Service coordinates session access for the surfaces.
type Service struct {
	run    Runner
	notify Notifier
}

// NewService creates a new note service.
func NewService(run Runner, opts ...Option) *Service {
	s := &Service{run: run}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(kind, path string) {
	if s.notify != nil && path != "" {
		s.notify(kind, path)
	}
}

// State returns the current view model.
func (s *Service) State(ctx context.Context) (session.State, error) {
	var st session.State
	err := s.run.Do(ctx, func(sess *session.Session) error {
		st = sess.Snapshot()
		return nil
	})
	return st, err
}

// Act applies a command-bar action and returns the resulting state.
func (s *Service) Act(ctx context.Context, a Action) (session.State, error) {
	msg, err := a.Msg()
	if err != nil {
		return session.State{}, err
	}
	var (
		st      session.State
		created string
	)
	err = s.run.Do(ctx, func(sess *session.Session) error {
		before := sess.Current()
		err := sess.Dispatch(msg)
		st = sess.Snapshot()
		if n := sess.Current(); a.Type == ActionCreateItem && n != nil && n != before {
			created = n.Path
		}
		return err
	})
	s.emit(EventCreated, created)
	return st, err
}

// Note returns the open note with its compiled runs.
func (s *Service) Note(ctx context.Context) (*NoteDetail, error) {
	var d *NoteDetail
	err := s.run.Do(ctx, func(sess *session.Session) error {
		var err error
		d, err = buildNoteDetail(sess)
		return err
	})
	return d, err
}

// Edit replaces the open note's body. When ifMatch is non-empty it must equal
// the checksum of the current body, otherwise apperr.ErrConflict is returned
// and nothing changes.
func (s *Service) Edit(ctx context.Context, body, ifMatch string) (*EditResult, error) {
	var res *EditResult
	err := s.run.Do(ctx, func(sess *session.Session) error {
		n := sess.Current()
		if n == nil {
			return apperr.ErrNoNote
		}
		if ifMatch != "" && ifMatch != checksum.String(n.Body) {
			return apperr.ErrConflict
		}

		res = &EditResult{}
		if err := sess.Edit(body); err != nil {
			if !errors.Is(err, apperr.ErrWriteFailed) {
				return err
			}
			res.Warning = err.Error()
		}
		d, err := buildNoteDetail(sess)
		if err != nil {
			return err
		}
		res.Note = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(EventSaved, res.Note.Path)
	return res, nil
}

// SetTitle renames the open note.
func (s *Service) SetTitle(ctx context.Context, title string) (*NoteDetail, error) {
	var d *NoteDetail
	err := s.run.Do(ctx, func(sess *session.Session) error {
		if err := sess.SetTitle(title); err != nil {
			return err
		}
		var err error
		d, err = buildNoteDetail(sess)
		return err
	})
	return d, err
}

// Render compiles the open note.
func (s *Service) Render(ctx context.Context) (styled.Result, error) {
	var res styled.Result
	err := s.run.Do(ctx, func(sess *session.Session) error {
		var err error
		res, err = sess.Render()
		return err
	})
	return res, err
}

// HTML exports the open note.
func (s *Service) HTML(ctx context.Context) (string, error) {
	var out string
	err := s.run.Do(ctx, func(sess *session.Session) error {
		var err error
		out, err = sess.ExportCurrent()
		return err
	})
	return out, err
}

// SetDarkMode switches the render palette.
func (s *Service) SetDarkMode(ctx context.Context, dark bool) (session.State, error) {
	var st session.State
	err := s.run.Do(ctx, func(sess *session.Session) error {
		sess.SetDarkMode(dark)
		st = sess.Snapshot()
		return nil
	})
	return st, err
}

// Search finds notes by title, body or tag.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	var out []catalog.SearchResult
	err := s.run.Do(ctx, func(sess *session.Session) error {
		var err error
		out, err = sess.Search(query, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("noteservice: search: %w", err)
	}
	return nonNilSlice(out), nil
}

// buildNoteDetail copies the open note out of the session.
func buildNoteDetail(sess *session.Session) (*NoteDetail, error) {
	n := sess.Current()
	if n == nil {
		return nil, apperr.ErrNoNote
	}
	res, err := sess.Render()
	if err != nil {
		return nil, err
	}
	return newNoteDetail(n, res.Runs), nil
}

func newNoteDetail(n *models.Note, runs []styled.Run) *NoteDetail {
	return &NoteDetail{
		Path:     n.Path,
		Title:    n.Title,
		Body:     n.Body,
		Checksum: checksum.String(n.Body),
		Runs:     nonNilSlice(runs),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
