// Package models defines the domain types for Folio.
package models

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DefaultFolderColor is assigned to folders created without an explicit color.
var DefaultFolderColor = RGB{R: 100, G: 100, B: 200}

// Note is a single markdown file. Body is the authoritative source; the
// derived HTML artifact lives next to Path with an .html extension.
type Note struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Path  string `json:"path"`
}

// Folder is a directory of notes. Notes keep insertion order, which is also
// file-creation order.
type Folder struct {
	Name  string  `json:"name"`
	Color RGB     `json:"color"`
	Notes []*Note `json:"notes"`
	Path  string  `json:"path"`
}

// NewFolder returns an empty folder bound to path.
func NewFolder(name string, color RGB, path string) *Folder {
	return &Folder{
		Name:  name,
		Color: color,
		Path:  path,
	}
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (RGB, error) {
	var c RGB
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("models: invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("models: invalid color %q: %w", s, err)
	}
	return c, nil
}

// NoteFileName returns the file name of the n-th note in a folder.
func NoteFileName(n int) string {
	return fmt.Sprintf("note_%d.md", n)
}

// NoteNumber extracts n from a "note_<n>.md" file name or path.
func NoteNumber(path string) (int, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "note_") || !strings.HasSuffix(name, ".md") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "note_"), ".md"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DefaultNoteTitle is the title given to the n-th note.
func DefaultNoteTitle(n int) string {
	return fmt.Sprintf("Note %d", n)
}

// DefaultFolderName is the name and directory name of the n-th folder.
func DefaultFolderName(n int) string {
	return fmt.Sprintf("Folder %d", n)
}
