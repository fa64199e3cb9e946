// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Folio tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/noteservice"
	"github.com/starford/folio/internal/styled"
)

const guideURI = "folio://workspace-guide"

// Server wraps the MCP server with Folio tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all Folio tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List folders with their notes, the active view and the current selection."),
	), s.listFolders)

	s.mcp.AddTool(mcp.NewTool("create_item",
		mcp.WithDescription("Create a folder on the home view, or a note in the selected folder otherwise. "+
			"A new note is opened immediately."),
	), s.createItem)

	s.mcp.AddTool(mcp.NewTool("select_folder",
		mcp.WithDescription("Enter the folder at the given index."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based folder index from list_folders")),
	), s.selectFolder)

	s.mcp.AddTool(mcp.NewTool("open_note",
		mcp.WithDescription("Open the note at the given index in the selected folder."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based note index within the folder")),
	), s.openNote)

	s.mcp.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Leave the current view: note to folder, folder or settings to home."),
	), s.goBack)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the open note: path, title, body and checksum."),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Replace the open note's body. The file and its HTML export are rewritten."),
		mcp.WithString("body", mcp.Required(), mcp.Description("Full Markdown body")),
		mcp.WithString("if_match", mcp.Description("Checksum from read_note; the write is refused if the note changed since")),
	), s.writeNote)

	s.mcp.AddTool(mcp.NewTool("render_note",
		mcp.WithDescription("Compile the open note into styled runs as rendered by the live view."),
		mcp.WithString("format", mcp.Description("json (default) for runs with styles, text for the visible text only"),
			mcp.Enum("json", "text")),
	), s.renderNote)

	s.mcp.AddTool(mcp.NewTool("export_note",
		mcp.WithDescription("Export the open note as an HTML fragment."),
	), s.exportNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by title, body or tag."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_workspace_guide",
		mcp.WithDescription("Returns the Folio workspace guide: layout, navigation and supported Markdown."),
	), s.getWorkspaceGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Workspace Guide",
			mcp.WithResourceDescription("How Folio lays out folders and notes and which Markdown it renders."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// toolError turns a domain error into a tool-level error the model can act on.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNoNote):
		return mcp.NewToolResultError("no note is open; use open_note or create_item first")
	case errors.Is(err, apperr.ErrConflict):
		return mcp.NewToolResultError("the note changed since it was read; call read_note and retry")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) act(ctx context.Context, a noteservice.Action) (*mcp.CallToolResult, error) {
	st, err := s.svc.Act(ctx, a)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(st), nil
}

func (s *Server) listFolders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.State(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(st), nil
}

func (s *Server) createItem(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.act(ctx, noteservice.Action{Type: noteservice.ActionCreateItem})
}

func (s *Server) selectFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.act(ctx, noteservice.Action{Type: noteservice.ActionSelectFolder, Index: index})
}

func (s *Server) openNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.act(ctx, noteservice.Action{Type: noteservice.ActionOpenNote, Index: index})
}

func (s *Server) goBack(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.act(ctx, noteservice.Action{Type: noteservice.ActionGoBack})
}

type noteView struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Checksum string `json:"checksum"`
}

func (s *Server) readNote(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.svc.Note(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(noteView{Path: d.Path, Title: d.Title, Body: d.Body, Checksum: d.Checksum}), nil
}

func (s *Server) writeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ifMatch := req.GetString("if_match", "")

	res, err := s.svc.Edit(ctx, body, ifMatch)
	if err != nil {
		return toolError(err), nil
	}
	if res.Warning != "" {
		return mcp.NewToolResultText(fmt.Sprintf("saved in memory only: %s (checksum %s)", res.Warning, res.Note.Checksum)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (checksum %s)", res.Note.Path, res.Note.Checksum)), nil
}

func (s *Server) renderNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := strings.ToLower(req.GetString("format", "json"))
	res, err := s.svc.Render(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if format == "text" {
		return mcp.NewToolResultText(styled.Text(res.Runs)), nil
	}
	return jsonResult(res), nil
}

func (s *Server) exportNote(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.svc.HTML(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(results), nil
}

func (s *Server) getWorkspaceGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(WorkspaceGuide), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     WorkspaceGuide,
		},
	}, nil
}
