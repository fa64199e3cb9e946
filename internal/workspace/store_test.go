package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	_, fs := testutil.TestWorkspace(t)
	return New(fs, testutil.Logger(), opts...)
}

func TestCreateFolder(t *testing.T) {
	s := newStore(t)
	f, err := s.CreateFolder()
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if f.Name != "Folder 1" || f.Color != models.DefaultFolderColor {
		t.Errorf("folder = %+v", f)
	}
	if info, err := os.Stat(f.Path); err != nil || !info.IsDir() {
		t.Errorf("folder directory missing: %v", err)
	}
	if s.View() != Home {
		t.Errorf("view = %v, want home", s.View())
	}
}

func TestCreateFolder_SkipsExistingDirectory(t *testing.T) {
	s := newStore(t)
	if err := os.Mkdir(filepath.Join(s.Root(), "Folder 1"), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := s.CreateFolder()
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "Folder 2" {
		t.Errorf("name = %q, want %q", f.Name, "Folder 2")
	}
}

func TestCreateFolder_CustomColor(t *testing.T) {
	red := models.RGB{R: 200}
	s := newStore(t, WithDefaultColor(red))
	f, _ := s.CreateFolder()
	if f.Color != red {
		t.Errorf("color = %+v, want %+v", f.Color, red)
	}
}

func TestCreateNote_Numbering(t *testing.T) {
	s := newStore(t)
	if _, err := s.CreateFolder(); err != nil {
		t.Fatal(err)
	}
	if err := s.Handle(SelectFolder{Index: 0}); err != nil {
		t.Fatal(err)
	}

	for i, want := range []string{"note_1.md", "note_2.md", "note_3.md"} {
		n, err := s.CreateNote()
		if err != nil {
			t.Fatalf("CreateNote %d: %v", i, err)
		}
		if !strings.HasSuffix(n.Path, want) {
			t.Errorf("note %d path = %q, want suffix %q", i, n.Path, want)
		}
		data, err := os.ReadFile(n.Path)
		if err != nil || len(data) != 0 {
			t.Errorf("note %d file = %q, %v; want empty file", i, data, err)
		}
		if s.Current() != n || s.View() != NoteView {
			t.Errorf("new note should be open")
		}
		// CreateNote needs the folder view, not the note view.
		_ = s.Handle(GoBack{})
	}

	notes := s.CurrentFolder().Notes
	if len(notes) != 3 || notes[2].Title != "Note 3" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestCreateNote_SkipsFileOnDisk(t *testing.T) {
	s := newStore(t)
	f, _ := s.CreateFolder()
	_ = s.Handle(SelectFolder{Index: 0})
	if err := os.WriteFile(filepath.Join(f.Path, "note_1.md"), []byte("stray"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.CreateNote()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(n.Path) != "note_2.md" {
		t.Errorf("path = %q, want note_2.md", n.Path)
	}
	data, _ := os.ReadFile(filepath.Join(f.Path, "note_1.md"))
	if string(data) != "stray" {
		t.Error("existing file was clobbered")
	}
}

func TestCreateNote_NoFolder(t *testing.T) {
	s := newStore(t)
	if _, err := s.CreateNote(); !errors.Is(err, apperr.ErrNoFolder) {
		t.Errorf("err = %v, want ErrNoFolder", err)
	}
}

func TestCreateItem_Fallback(t *testing.T) {
	s := newStore(t)
	if err := s.Handle(CreateItem{}); err != nil {
		t.Fatal(err)
	}
	if len(s.Folders()) != 1 {
		t.Fatalf("CreateItem without a folder should create one, got %d folders", len(s.Folders()))
	}

	_ = s.Handle(SelectFolder{Index: 0})
	if err := s.Handle(CreateItem{}); err != nil {
		t.Fatal(err)
	}
	if len(s.Folders()) != 1 || len(s.Folders()[0].Notes) != 1 {
		t.Errorf("CreateItem with a folder should create a note")
	}
}

func TestSelectionTransitions(t *testing.T) {
	s := newStore(t)
	_ = s.Handle(CreateItem{})
	_ = s.Handle(SelectFolder{Index: 0})
	_ = s.Handle(CreateItem{})

	checks := []struct {
		msg    Msg
		view   View
		folder int
		note   int
	}{
		{GoBack{}, FolderView, 0, -1},
		{OpenNote{Index: 0}, NoteView, 0, 0},
		{OpenSettings{}, SettingsView, -1, -1},
		{GoBack{}, Home, -1, -1},
		{SelectFolder{Index: 0}, FolderView, 0, -1},
		{GoBack{}, Home, -1, -1},
		{SelectFolder{Index: 0}, FolderView, 0, -1},
		{OpenNote{Index: 0}, NoteView, 0, 0},
		{SelectHome{}, Home, -1, -1},
		{GoBack{}, Home, -1, -1},
	}
	for i, c := range checks {
		if err := s.Handle(c.msg); err != nil {
			t.Fatalf("step %d %T: %v", i, c.msg, err)
		}
		folder, note := s.Selection()
		if s.View() != c.view || folder != c.folder || note != c.note {
			t.Errorf("step %d %T: view=%v folder=%d note=%d, want %v %d %d",
				i, c.msg, s.View(), folder, note, c.view, c.folder, c.note)
		}
	}
}

func TestOpenNote_RequiresFolder(t *testing.T) {
	s := newStore(t)
	if err := s.Handle(OpenNote{Index: 0}); !errors.Is(err, apperr.ErrNoFolder) {
		t.Errorf("err = %v, want ErrNoFolder", err)
	}
}

func TestOutOfRange(t *testing.T) {
	s := newStore(t)
	_ = s.Handle(CreateItem{})
	if err := s.Handle(SelectFolder{Index: 3}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SelectFolder err = %v", err)
	}
	_ = s.Handle(SelectFolder{Index: 0})
	if err := s.Handle(OpenNote{Index: 0}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("OpenNote err = %v", err)
	}
	if err := s.Handle(RenameFolder{Index: -1, Name: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("RenameFolder err = %v", err)
	}
}

func TestSetBodyAndTitle(t *testing.T) {
	s := newStore(t)
	if err := s.SetBody("x"); !errors.Is(err, apperr.ErrNoNote) {
		t.Errorf("SetBody with no note err = %v", err)
	}
	_ = s.Handle(CreateItem{})
	_ = s.Handle(SelectFolder{Index: 0})
	_ = s.Handle(CreateItem{})

	if err := s.SetBody("# Hi"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTitle("Greeting"); err != nil {
		t.Fatal(err)
	}
	n := s.Current()
	if n.Body != "# Hi" || n.Title != "Greeting" {
		t.Errorf("note = %+v", n)
	}
}

func TestOpenNote_RereadsBody(t *testing.T) {
	s := newStore(t)
	_ = s.Handle(CreateItem{})
	_ = s.Handle(SelectFolder{Index: 0})
	_ = s.Handle(CreateItem{})
	path := s.Current().Path
	_ = s.Handle(GoBack{})

	if err := os.WriteFile(path, []byte("changed meanwhile"), 0o644); err != nil {
		t.Fatal(err)
	}
	_ = s.Handle(OpenNote{Index: 0})
	if got := s.Current().Body; got != "changed meanwhile" {
		t.Errorf("body = %q", got)
	}
}

func TestLoad(t *testing.T) {
	root, fs := testutil.TestWorkspace(t)
	for _, p := range []string{
		"Folder 1/note_2.md",
		"Folder 1/note_10.md",
		"Folder 1/note_1.md",
		"Folder 1/readme.md",
		"Folder 2/note_1.md",
	} {
		if err := fs.Write(p, []byte("body of "+p)); err != nil {
			t.Fatal(err)
		}
	}

	s := New(fs, testutil.Logger())
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	folders := s.Folders()
	if len(folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(folders))
	}
	f1 := folders[0]
	if f1.Name != "Folder 1" || f1.Path != filepath.Join(root, "Folder 1") {
		t.Errorf("folder = %+v", f1)
	}
	if len(f1.Notes) != 3 {
		t.Fatalf("notes = %d, want 3 (readme.md skipped)", len(f1.Notes))
	}
	for i, want := range []string{"note_1.md", "note_2.md", "note_10.md"} {
		if filepath.Base(f1.Notes[i].Path) != want {
			t.Errorf("note %d = %q, want %q", i, f1.Notes[i].Path, want)
		}
	}
	if f1.Notes[2].Title != "Note 10" || f1.Notes[0].Body != "body of Folder 1/note_1.md" {
		t.Errorf("note = %+v", f1.Notes[0])
	}
}

func TestLoad_RestoresFromCatalog(t *testing.T) {
	_, fs := testutil.TestWorkspace(t)
	db := testutil.TestCatalog(t)

	s := New(fs, testutil.Logger(), WithCatalog(db))
	_ = s.Handle(CreateItem{})
	_ = s.Handle(CreateItem{})
	green := models.RGB{G: 180}
	_ = s.Handle(RenameFolder{Index: 1, Name: "Archive"})
	_ = s.Handle(SetFolderColor{Index: 1, Color: green})
	_ = s.Handle(SelectFolder{Index: 1})
	_ = s.Handle(CreateItem{})
	_ = s.SetTitle("Plans")

	reloaded := New(fs, testutil.Logger(), WithCatalog(db))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	folders := reloaded.Folders()
	if len(folders) != 2 {
		t.Fatalf("folders = %d", len(folders))
	}
	f := folders[1]
	if f.Name != "Archive" || f.Color != green {
		t.Errorf("folder = %+v", f)
	}
	if len(f.Notes) != 1 || f.Notes[0].Title != "Plans" {
		t.Errorf("notes = %+v", f.Notes)
	}
	if reloaded.View() != Home {
		t.Errorf("view = %v, want home after load", reloaded.View())
	}
}
