package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/starford/folio/internal/termview"
)

func TestExport_WritesSibling(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note_1.md")
	if err := os.WriteFile(src, []byte("# Hi\n\n**there**"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := Export(src, WithConfig(NewDefaultConfig()))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out != filepath.Join(dir, "note_1.html") {
		t.Errorf("out = %q", out)
	}
	html, _ := os.ReadFile(out)
	if !strings.Contains(string(html), "<strong>there</strong>") {
		t.Errorf("html = %q", html)
	}
}

func TestExport_ReplacesExistingSiblingAtomically(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note_1.md")
	if err := os.WriteFile(src, []byte("new *body*"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "note_1.html"), []byte("<p>stale</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := Export(src, WithConfig(NewDefaultConfig()))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	html, _ := os.ReadFile(out)
	if strings.Contains(string(html), "stale") || !strings.Contains(string(html), "<em>body</em>") {
		t.Errorf("html = %q", html)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".folio-tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestExport_Missing(t *testing.T) {
	if _, err := Export(filepath.Join(t.TempDir(), "nope.md"), WithConfig(NewDefaultConfig())); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := Export("x.md"); err == nil {
		t.Error("expected error without config")
	}
}

func TestRender_PlainProfile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "note_1.md")
	_ = os.WriteFile(src, []byte("# Title\n\n- a\n- b\n"), 0o644)

	var buf bytes.Buffer
	r := termview.NewWriterRenderer(&buf, termenv.Ascii, true)
	if err := Render(&buf, src, 0, true, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "Title\n") || !strings.Contains(got, "• a") {
		t.Errorf("output = %q", got)
	}
}
