package noteservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/export"
	"github.com/starford/folio/internal/filesync"
	"github.com/starford/folio/internal/session"
	"github.com/starford/folio/internal/testutil"
	"github.com/starford/folio/internal/workspace"
)

func newService(t *testing.T) *Service {
	t.Helper()
	_, fs := testutil.TestWorkspace(t)
	logger := testutil.Logger()
	exporter := export.New(export.DefaultOptions())
	sess := session.New(workspace.New(fs, logger), filesync.New(fs, exporter, logger), exporter, logger)
	loop := session.NewLoop(sess, 10*time.Millisecond, logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewService(loop)
}

func openNote(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	for _, a := range []Action{{Type: ActionCreateItem}, {Type: ActionSelectFolder}, {Type: ActionCreateItem}} {
		if _, err := svc.Act(ctx, a); err != nil {
			t.Fatalf("Act %s: %v", a.Type, err)
		}
	}
}

func TestAction_Msg(t *testing.T) {
	tests := []struct {
		action  Action
		want    workspace.Msg
		invalid bool
	}{
		{Action{Type: ActionSelectFolder, Index: 2}, workspace.SelectFolder{Index: 2}, false},
		{Action{Type: ActionOpenNote, Index: 1}, workspace.OpenNote{Index: 1}, false},
		{Action{Type: ActionSelectHome}, workspace.SelectHome{}, false},
		{Action{Type: ActionGoBack}, workspace.GoBack{}, false},
		{Action{Type: ActionOpenSettings}, workspace.OpenSettings{}, false},
		{Action{Type: ActionCreateItem}, workspace.CreateItem{}, false},
		{Action{Type: ActionRenameFolder, Name: "Work"}, workspace.RenameFolder{Name: "Work"}, false},
		{Action{Type: ActionRenameFolder}, nil, true},
		{Action{Type: ActionSetFolderColor, Color: "#ff0000"}, nil, false},
		{Action{Type: ActionSetFolderColor, Color: "red"}, nil, true},
		{Action{Type: "explode"}, nil, true},
	}
	for _, tt := range tests {
		msg, err := tt.action.Msg()
		if tt.invalid {
			if !errors.Is(err, apperr.ErrInvalidAction) {
				t.Errorf("%+v: err = %v, want ErrInvalidAction", tt.action, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v: %v", tt.action, err)
			continue
		}
		if tt.want != nil && msg != tt.want {
			t.Errorf("%+v: msg = %#v, want %#v", tt.action, msg, tt.want)
		}
	}
}

func TestService_ActAndState(t *testing.T) {
	svc := newService(t)
	openNote(t, svc)

	st, err := svc.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.View != "note" || len(st.Folders) != 1 || len(st.Folders[0].Notes) != 1 {
		t.Errorf("state = %+v", st)
	}

	_, err = svc.Act(context.Background(), Action{Type: ActionOpenNote, Index: 5})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_EditAndNote(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Edit(ctx, "x", ""); !errors.Is(err, apperr.ErrNoNote) {
		t.Errorf("edit without note err = %v", err)
	}
	openNote(t, svc)

	res, err := svc.Edit(ctx, "# Title", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Warning != "" {
		t.Errorf("warning = %q", res.Warning)
	}
	if res.Note.Checksum != checksum.String("# Title") || len(res.Note.Runs) != 1 {
		t.Errorf("note = %+v", res.Note)
	}

	d, err := svc.Note(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Body != "# Title" {
		t.Errorf("body = %q", d.Body)
	}
}

func TestService_EditConflict(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	openNote(t, svc)
	if _, err := svc.Edit(ctx, "v1", ""); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Edit(ctx, "v2", checksum.String("stale")); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if _, err := svc.Edit(ctx, "v2", checksum.String("v1")); err != nil {
		t.Errorf("matching If-Match rejected: %v", err)
	}
}

func TestService_EditWarning(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	openNote(t, svc)

	d, _ := svc.Note(ctx)
	dir := filepath.Dir(d.Path)
	_ = os.RemoveAll(dir)
	if err := os.WriteFile(dir, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Edit(ctx, "kept", "")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if res.Warning == "" || res.Note.Body != "kept" {
		t.Errorf("result = %+v, want warning and kept body", res)
	}
}

func TestService_RenderHTMLSearch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	openNote(t, svc)
	_, _ = svc.Edit(ctx, "*needle*", "")

	r, err := svc.Render(ctx)
	if err != nil || len(r.Runs) != 1 || !r.Runs[0].Style.Italic {
		t.Errorf("render = %+v, %v", r, err)
	}
	html, err := svc.HTML(ctx)
	if err != nil || html != "<p><em>needle</em></p>\n" {
		t.Errorf("html = %q, %v", html, err)
	}
	hits, err := svc.Search(ctx, "needle", 0)
	if err != nil || len(hits) != 1 {
		t.Errorf("hits = %+v, %v", hits, err)
	}
	hits, _ = svc.Search(ctx, "zzz", 0)
	if hits == nil {
		t.Error("empty search should return an empty slice")
	}
}

func TestService_Notifier(t *testing.T) {
	_, fs := testutil.TestWorkspace(t)
	logger := testutil.Logger()
	exporter := export.New(export.DefaultOptions())
	sess := session.New(workspace.New(fs, logger), filesync.New(fs, exporter, logger), exporter, logger)
	loop := session.NewLoop(sess, 10*time.Millisecond, logger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	var events []string
	svc := NewService(loop, WithNotifier(func(kind, path string) {
		events = append(events, kind+" "+filepath.Base(path))
	}))
	openNote(t, svc)
	_, _ = svc.Edit(context.Background(), "x", "")

	want := []string{"created note_1.md", "saved note_1.md"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}
