package filesync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/storage"
)

// Follow converts the markdown file at path into its HTML sibling, then
// converts it again on every content change until ctx is cancelled. Only the
// first conversion is fatal; later failures are logged and following goes on.
func Follow(ctx context.Context, path string, exporter *export.Exporter, logger *slog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filesync: resolve %s: %w", path, err)
	}
	store, err := storage.NewFS(filepath.Dir(abs))
	if err != nil {
		return err
	}
	name := filepath.Base(abs)

	if err := convert(store, name, exporter); err != nil {
		return err
	}
	logger.Info("follow: converted", slog.String("path", abs))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filesync: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(store.Root()); err != nil {
		return fmt.Errorf("filesync: watch %s: %w", abs, err)
	}

	logger.Info("follow: started", slog.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			logger.Info("follow: stopped", slog.String("path", abs))
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || !isContentChange(ev.Op) {
				continue
			}
			if err := convert(store, name, exporter); err != nil {
				logger.Warn("follow: convert failed",
					slog.String("path", abs),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("follow: converted", slog.String("path", abs))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("follow: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

// ConvertFile writes the HTML sibling of the markdown file at path once and
// returns the sibling's path. The write is atomic.
func ConvertFile(path string, exporter *export.Exporter) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("filesync: resolve %s: %w", path, err)
	}
	store, err := storage.NewFS(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	if err := convert(store, filepath.Base(abs), exporter); err != nil {
		return "", err
	}
	return export.HTMLPath(abs), nil
}

func convert(store storage.Provider, name string, exporter *export.Exporter) error {
	data, err := store.Read(name)
	if err != nil {
		return fmt.Errorf("filesync: read %s: %w", name, err)
	}
	if err := store.Write(export.HTMLPath(name), []byte(exporter.Export(string(data)))); err != nil {
		return fmt.Errorf("filesync: write html: %w", err)
	}
	return nil
}
