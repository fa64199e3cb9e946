package internal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/filesync"
	"github.com/starford/folio/internal/styled"
	"github.com/starford/folio/internal/termview"
)

// Watch converts path to HTML on every change until ctx is cancelled.
func Watch(ctx context.Context, path string, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	logger := newLogger(app.config, os.Stderr)
	return filesync.Follow(ctx, path, export.New(app.config.Export.Options()), logger)
}

// Export writes the HTML sibling of the markdown file at path and returns
// its location.
func Export(path string, opts ...Option) (string, error) {
	app := newApplication(opts)
	if app.config == nil {
		return "", fmt.Errorf("config is required")
	}
	out, err := filesync.ConvertFile(path, export.New(app.config.Export.Options()))
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return out, nil
}

// Render paints the markdown file at path to w using r.
func Render(w io.Writer, path string, width int, dark bool, r *lipgloss.Renderer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	res := styled.Compile(string(data), styled.DefaultContext(dark))
	_, err = fmt.Fprintln(w, termview.Render(res.Runs, width, r))
	return err
}
