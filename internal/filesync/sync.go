// Package filesync keeps the open note's in-memory body and its file on disk
// converging. It owns at most one filesystem watch at a time, forwards change
// notifications into a bounded queue, and lets the owning loop drain that
// queue without ever blocking.
package filesync

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/storage"
)

// DefaultQueueSize is the capacity of the change-notification queue.
const DefaultQueueSize = 64

// State is the synchronizer's watch state.
type State int

// Watch states.
const (
	Idle State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "idle"
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithQueueSize sets the notification queue capacity. Values below 1 are
// ignored.
func WithQueueSize(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// Synchronizer is not safe for concurrent use. All methods must be called
// from the goroutine that owns the open note; only the internal forwarding
// goroutine runs elsewhere, and it touches nothing but the queue.
type Synchronizer struct {
	store     storage.Provider
	exporter  *export.Exporter
	logger    *slog.Logger
	queueSize int

	state   State
	path    string
	watcher *fsnotify.Watcher
	events  chan fsnotify.Op
	done    chan struct{}

	// written maps a note path to the digest of the last body we wrote there.
	written map[string]string
}

// New creates an idle Synchronizer. exporter may be nil, in which case no
// HTML sibling is written on commit.
func New(store storage.Provider, exporter *export.Exporter, logger *slog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:     store,
		exporter:  exporter,
		logger:    logger,
		queueSize: DefaultQueueSize,
		written:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current watch state.
func (s *Synchronizer) State() State { return s.state }

// Path returns the watched path, or "" when idle.
func (s *Synchronizer) Path() string { return s.path }

// Open starts watching path, dropping any previous watch first. Opening the
// path that is already watched is a no-op. On failure the synchronizer is
// left idle.
func (s *Synchronizer) Open(path string) error {
	path = filepath.Clean(path)
	if s.state == Watching && s.path == path {
		return nil
	}
	if err := s.Close(); err != nil {
		s.logger.Warn("filesync: close previous watch",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filesync: new watcher: %w", err)
	}
	// Watch the directory so the watch survives rename-into-place saves.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("filesync: watch %s: %w", path, err)
	}

	s.watcher = w
	s.events = make(chan fsnotify.Op, s.queueSize)
	s.done = make(chan struct{})
	s.path = path
	s.state = Watching

	go s.forward(w, path, s.events, s.done)

	s.logger.Info("filesync: watching", slog.String("path", path))
	return nil
}

// Close drops the current watch. Closing an idle synchronizer is a no-op.
func (s *Synchronizer) Close() error {
	if s.state == Idle {
		return nil
	}
	err := s.watcher.Close()
	<-s.done

	s.logger.Info("filesync: stopped", slog.String("path", s.path))

	s.watcher = nil
	s.events = nil
	s.done = nil
	s.path = ""
	s.state = Idle
	return err
}

// forward moves events for path from the watcher into out until the watcher
// is closed. A full queue drops the event: a later drain still reads the
// current file, so nothing is lost but an intermediate state.
func (s *Synchronizer) forward(w *fsnotify.Watcher, path string, out chan<- fsnotify.Op, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			select {
			case out <- ev.Op:
			default:
				s.logger.Debug("filesync: queue full, event dropped",
					slog.String("path", path),
					slog.String("op", ev.Op.String()))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("filesync: watch error",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
}

// Drain consumes every queued notification without blocking. If any of them
// modified the file's content, the file is read once and its contents are
// returned with changed=true, unless they match our own last write or
// current.
func (s *Synchronizer) Drain(current string) (body string, changed bool) {
	if s.state != Watching {
		return "", false
	}

	modified := false
drain:
	for {
		select {
		case op := <-s.events:
			if isContentChange(op) {
				modified = true
			}
		default:
			break drain
		}
	}
	if !modified {
		return "", false
	}

	data, err := s.store.Read(s.path)
	if err != nil {
		s.logger.Warn("filesync: reload read failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return "", false
	}

	if own, ok := s.written[s.path]; ok {
		if checksum.Sum(data) == own {
			s.logger.Debug("filesync: own write ignored", slog.String("path", s.path))
			return "", false
		}
		// Someone else wrote since; later content equal to our old write is theirs.
		delete(s.written, s.path)
	}
	if string(data) == current {
		return "", false
	}

	s.logger.Info("filesync: reload", slog.String("path", s.path))
	return string(data), true
}

// Commit writes body through to path and regenerates the HTML sibling. Both
// writes are attempted; their errors are joined.
func (s *Synchronizer) Commit(path, body string) error {
	path = filepath.Clean(path)

	var errs []error
	if err := s.store.Write(path, []byte(body)); err != nil {
		delete(s.written, path)
		errs = append(errs, fmt.Errorf("filesync: write note: %w", err))
	} else {
		// Drain runs on the same goroutine, so the events of this write are
		// read only after the digest is in place.
		s.written[path] = checksum.String(body)
	}
	if err := s.WriteHTML(path, body); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WriteHTML regenerates the HTML sibling of path from body without touching
// the note itself. It is a no-op without an exporter.
func (s *Synchronizer) WriteHTML(path, body string) error {
	if s.exporter == nil {
		return nil
	}
	htmlPath := export.HTMLPath(filepath.Clean(path))
	if err := s.store.Write(htmlPath, []byte(s.exporter.Export(body))); err != nil {
		return fmt.Errorf("filesync: write html: %w", err)
	}
	return nil
}

// isContentChange reports whether op may have changed the file's content.
func isContentChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create)
}
