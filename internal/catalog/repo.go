package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// FolderRow represents a row in the folders table.
type FolderRow struct {
	Path     string
	Name     string
	Color    models.RGB
	Position int
}

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Folder    string
	Title     string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Folder  string `json:"folder"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertFolder inserts or replaces a folder.
func (db *DB) UpsertFolder(f FolderRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO folders (path, name, color, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name     = excluded.name,
			color    = excluded.color,
			position = excluded.position
	`, f.Path, f.Name, f.Color.Hex(), f.Position)
	if err != nil {
		return fmt.Errorf("catalog: upsert folder: %w", err)
	}
	return nil
}

// Folders returns every folder ordered by position.
func (db *DB) Folders() ([]FolderRow, error) {
	rows, err := db.conn.Query(`SELECT path, name, color, position FROM folders ORDER BY position, path`)
	if err != nil {
		return nil, fmt.Errorf("catalog: folders: %w", err)
	}
	defer rows.Close()

	var out []FolderRow
	for rows.Next() {
		var (
			f   FolderRow
			hex string
		)
		if err := rows.Scan(&f.Path, &f.Name, &hex, &f.Position); err != nil {
			return nil, err
		}
		if f.Color, err = models.ParseHex(hex); err != nil {
			f.Color = models.DefaultFolderColor
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpsertNote inserts or replaces a note and its search entry within a
// transaction.
func (db *DB) UpsertNote(n NoteRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if n.Tags == nil {
		n.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(n.Tags)
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO notes (path, folder, title, checksum, tags, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			folder     = excluded.folder,
			title      = excluded.title,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Folder, n.Title, n.Checksum, string(tagsJSON), body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert note: %w", err)
	}

	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// GetNote returns the row for path, or apperr.ErrNotFound.
func (db *DB) GetNote(path string) (*NoteRow, error) {
	var (
		n    NoteRow
		tags string
	)
	err := db.conn.QueryRow(`
		SELECT path, folder, title, checksum, tags, updated_at
		FROM notes WHERE path = ?
	`, path).Scan(&n.Path, &n.Folder, &n.Title, &n.Checksum, &tags, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: note %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get note: %w", err)
	}
	_ = json.Unmarshal([]byte(tags), &n.Tags)
	return &n, nil
}

// Notes returns the notes of folder ordered by path.
func (db *DB) Notes(folder string) ([]NoteRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, folder, title, checksum, tags, updated_at
		FROM notes WHERE folder = ? ORDER BY path
	`, folder)
	if err != nil {
		return nil, fmt.Errorf("catalog: notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var (
			n    NoteRow
			tags string
		)
		if err := rows.Scan(&n.Path, &n.Folder, &n.Title, &n.Checksum, &tags, &n.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tags), &n.Tags)
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteNote removes a note and its search entry.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns path → checksum for every stored note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
