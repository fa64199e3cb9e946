package workspace

import "github.com/starford/folio/internal/models"

// View is the active screen of the selection state machine.
type View int

// Views.
const (
	Home View = iota
	FolderView
	NoteView
	SettingsView
)

func (v View) String() string {
	switch v {
	case FolderView:
		return "folder"
	case NoteView:
		return "note"
	case SettingsView:
		return "settings"
	default:
		return "home"
	}
}

// Msg is a discrete action from the command bar.
type Msg interface {
	isMsg()
}

// SelectFolder selects the folder at Index.
type SelectFolder struct{ Index int }

// OpenNote opens the note at Index in the selected folder.
type OpenNote struct{ Index int }

// SelectHome clears the selection.
type SelectHome struct{}

// GoBack moves one level up.
type GoBack struct{}

// OpenSettings shows the settings view.
type OpenSettings struct{}

// CreateItem creates a note in the selected folder, or a folder when none
// is selected.
type CreateItem struct{}

// RenameFolder renames the folder at Index. Only the display name changes.
type RenameFolder struct {
	Index int
	Name  string
}

// SetFolderColor recolors the folder at Index.
type SetFolderColor struct {
	Index int
	Color models.RGB
}

func (SelectFolder) isMsg()   {}
func (OpenNote) isMsg()       {}
func (SelectHome) isMsg()     {}
func (GoBack) isMsg()         {}
func (OpenSettings) isMsg()   {}
func (CreateItem) isMsg()     {}
func (RenameFolder) isMsg()   {}
func (SetFolderColor) isMsg() {}
