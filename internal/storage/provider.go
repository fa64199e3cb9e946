// Package storage defines the workspace file-system abstraction.
package storage

import "github.com/starford/folio/internal/models"

// Provider is the interface for workspace file operations. Paths may be
// absolute (inside the root) or relative to the root.
type Provider interface {
	// Root returns the absolute workspace root.
	Root() string
	// Dirs returns the absolute paths of the immediate subdirectories of dir.
	Dirs(dir string) ([]string, error)
	// List returns metadata for every .md file directly inside dir.
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Create makes an empty file at path, failing with apperr.ErrAlreadyExists
	// if something is already there.
	Create(path string) error
	// Mkdir creates the directory at path and any missing parents.
	Mkdir(path string) error
	// Exists reports whether anything exists at path.
	Exists(path string) bool
}
