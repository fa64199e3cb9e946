package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/starford/folio/internal/testutil"
	"github.com/starford/folio/internal/workspace"
)

func startLoop(t *testing.T, s *Session, onReload func(string)) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(s, 10*time.Millisecond, testutil.Logger(), onReload)
	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, cancel
}

func TestLoop_Do(t *testing.T) {
	s := newSession(t)
	l, _ := startLoop(t, s, nil)
	ctx := context.Background()

	err := l.Do(ctx, func(s *Session) error {
		return s.Dispatch(workspace.CreateItem{})
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	var folders int
	_ = l.Do(ctx, func(s *Session) error {
		folders = len(s.Snapshot().Folders)
		return nil
	})
	if folders != 1 {
		t.Errorf("folders = %d, want 1", folders)
	}

	want := errors.New("boom")
	if err := l.Do(ctx, func(*Session) error { return want }); !errors.Is(err, want) {
		t.Errorf("Do err = %v, want %v", err, want)
	}
}

func TestLoop_ReloadNotifies(t *testing.T) {
	s := newSession(t)
	path := openNewNote(t, s)

	var mu sync.Mutex
	var reloaded []string
	l, _ := startLoop(t, s, func(p string) {
		mu.Lock()
		reloaded = append(reloaded, p)
		mu.Unlock()
	})

	if err := os.WriteFile(path, []byte("from outside"), 0o644); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloaded) > 0 && reloaded[0] == path
	}, "reload callback not invoked")

	var body string
	_ = l.Do(context.Background(), func(s *Session) error {
		body = s.Current().Body
		return nil
	})
	if body != "from outside" {
		t.Errorf("body = %q", body)
	}
}

func TestLoop_EditsAreNotReloaded(t *testing.T) {
	s := newSession(t)
	openNewNote(t, s)

	var mu sync.Mutex
	reloads := 0
	l, _ := startLoop(t, s, func(string) {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	ctx := context.Background()
	for _, body := range []string{"a", "ab", "abc"} {
		b := body
		if err := l.Do(ctx, func(s *Session) error { return s.Edit(b) }); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if reloads != 0 {
		t.Errorf("reloads = %d, want 0", reloads)
	}
}

func TestLoop_DoAfterStop(t *testing.T) {
	s := newSession(t)
	l, cancel := startLoop(t, s, nil)
	cancel()

	testutil.Eventually(t, time.Second, 10*time.Millisecond, func() bool {
		return errors.Is(l.Do(context.Background(), func(*Session) error { return nil }), ErrLoopStopped)
	}, "Do after stop should report ErrLoopStopped")
}
