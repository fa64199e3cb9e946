package catalog

// Catalog is the persistence surface the workspace and session depend on.
// Consumers should depend on this interface rather than the concrete *DB
// type so they can run without a database.
type Catalog interface {
	UpsertFolder(f FolderRow) error
	Folders() ([]FolderRow, error)
	UpsertNote(n NoteRow, body string) error
	GetNote(path string) (*NoteRow, error)
	Notes(folder string) ([]NoteRow, error)
	DeleteNote(path string) error
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
