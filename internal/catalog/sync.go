package catalog

import (
	"log/slog"
	"path/filepath"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

// Sync walks the workspace and brings the catalog up to date:
//   - folders not yet known are added with their directory name
//   - new or changed notes are parsed and upserted
//   - notes removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	dirs, err := store.Dirs("")
	if err != nil {
		return err
	}

	folders, err := db.Folders()
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		known[f.Path] = struct{}{}
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	position := len(folders)
	disk := make(map[string]struct{})
	for _, dir := range dirs {
		if _, ok := known[dir]; !ok {
			row := FolderRow{
				Path:     dir,
				Name:     filepath.Base(dir),
				Color:    models.DefaultFolderColor,
				Position: position,
			}
			position++
			if err := db.UpsertFolder(row); err != nil {
				logger.Warn("sync: folder upsert failed", slog.String("path", dir), slog.String("error", err.Error()))
			}
		}

		metas, err := store.List(dir)
		if err != nil {
			logger.Warn("sync: list failed", slog.String("path", dir), slog.String("error", err.Error()))
			continue
		}
		for _, m := range metas {
			disk[m.Path] = struct{}{}

			if checksums[m.Path] == m.Checksum {
				continue
			}

			data, err := store.Read(m.Path)
			if err != nil {
				logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				continue
			}
			if err := indexFile(db, dir, m.Path, data); err != nil {
				logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: indexed", slog.String("path", m.Path))
			}
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// Record stores the current state of a note that lives in folder.
func Record(c Catalog, folder string, n *models.Note) error {
	res := parser.Parse([]byte(n.Body))
	return c.UpsertNote(NoteRow{
		Path:     n.Path,
		Folder:   folder,
		Title:    n.Title,
		Checksum: checksum.String(n.Body),
		Tags:     res.Tags,
	}, n.Body)
}

// indexFile upserts a note found on disk. A title already in the catalog
// wins over one derived from the content.
func indexFile(db *DB, folder, path string, data []byte) error {
	res := parser.Parse(data)

	title := res.Title
	if existing, err := db.GetNote(path); err == nil && existing.Title != "" {
		title = existing.Title
	}
	if title == "" {
		if n, ok := models.NoteNumber(path); ok {
			title = models.DefaultNoteTitle(n)
		}
	}

	return db.UpsertNote(NoteRow{
		Path:     path,
		Folder:   folder,
		Title:    title,
		Checksum: checksum.Sum(data),
		Tags:     res.Tags,
	}, string(data))
}
