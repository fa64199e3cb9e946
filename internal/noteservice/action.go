package noteservice

import (
	"fmt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/workspace"
)

// Action types accepted by Act.
const (
	ActionSelectFolder   = "select_folder"
	ActionOpenNote       = "open_note"
	ActionSelectHome     = "select_home"
	ActionGoBack         = "go_back"
	ActionOpenSettings   = "open_settings"
	ActionCreateItem     = "create_item"
	ActionRenameFolder   = "rename_folder"
	ActionSetFolderColor = "set_folder_color"
)

// Action is the wire form of a command-bar action.
type Action struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// Msg converts the action into a store message.
func (a Action) Msg() (workspace.Msg, error) {
	switch a.Type {
	case ActionSelectFolder:
		return workspace.SelectFolder{Index: a.Index}, nil
	case ActionOpenNote:
		return workspace.OpenNote{Index: a.Index}, nil
	case ActionSelectHome:
		return workspace.SelectHome{}, nil
	case ActionGoBack:
		return workspace.GoBack{}, nil
	case ActionOpenSettings:
		return workspace.OpenSettings{}, nil
	case ActionCreateItem:
		return workspace.CreateItem{}, nil
	case ActionRenameFolder:
		if a.Name == "" {
			return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidAction)
		}
		return workspace.RenameFolder{Index: a.Index, Name: a.Name}, nil
	case ActionSetFolderColor:
		c, err := models.ParseHex(a.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidAction, err)
		}
		return workspace.SetFolderColor{Index: a.Index, Color: c}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", apperr.ErrInvalidAction, a.Type)
	}
}
