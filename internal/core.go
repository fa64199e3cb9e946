package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/filesync"
	"github.com/starford/folio/internal/session"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/workspace"
)

// core is the session stack shared by the HTTP and MCP modes.
type core struct {
	session *session.Session
	catalog *catalog.DB
}

func (c *core) Close() error {
	if c.catalog == nil {
		return nil
	}
	return c.catalog.Close()
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildCore opens the workspace, syncs the catalog and loads the tree.
func buildCore(cfg *Config, logger *slog.Logger) (*core, error) {
	if err := os.MkdirAll(cfg.Workspace.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}

	fs, err := storage.NewFS(cfg.Workspace.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	c := &core{}
	var (
		storeOpts   []workspace.Option
		sessionOpts = []session.Option{session.WithDarkMode(cfg.Editor.DarkMode)}
	)

	if cfg.SQLite.Enabled() {
		db, err := catalog.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init catalog: %w", err)
		}
		c.catalog = db

		if err := catalog.Sync(db, fs, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
		storeOpts = append(storeOpts, workspace.WithCatalog(db))
		sessionOpts = append(sessionOpts, session.WithCatalog(db))
	}

	store := workspace.New(fs, logger, storeOpts...)
	if err := store.Load(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load workspace: %w", err)
	}

	exporter := export.New(cfg.Export.Options())
	sync := filesync.New(fs, exporter, logger, filesync.WithQueueSize(cfg.Editor.QueueSize))
	c.session = session.New(store, sync, exporter, logger, sessionOpts...)

	logger.Info("workspace loaded",
		slog.String("root", fs.Root()),
		slog.Int("folders", len(store.Folders())))
	return c, nil
}
