package termview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/starford/folio/internal/styled"
)

func compile(src string) []styled.Run {
	return styled.Compile(src, styled.DefaultContext(true)).Runs
}

func TestRender_AsciiIsVisibleText(t *testing.T) {
	r := NewWriterRenderer(&bytes.Buffer{}, termenv.Ascii, true)
	src := "# Title\n\nsome *soft* and **loud** text\n\n- one\n- two"
	runs := compile(src)

	got := Render(runs, 0, r)
	want := strings.TrimSuffix(styled.Text(runs), "\n")
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRender_ColorsEmitEscapes(t *testing.T) {
	r := NewWriterRenderer(&bytes.Buffer{}, termenv.TrueColor, true)
	got := Render(compile("**loud**"), 0, r)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape sequences in %q", got)
	}
	if ansi.Strip(got) != "loud" {
		t.Errorf("stripped = %q", ansi.Strip(got))
	}
}

func TestRender_Wraps(t *testing.T) {
	r := NewWriterRenderer(&bytes.Buffer{}, termenv.Ascii, true)
	got := Render(compile("alpha beta gamma delta epsilon"), 12, r)

	lines := strings.Split(got, "\n")
	if len(lines) < 3 {
		t.Fatalf("lines = %q, want wrapping", lines)
	}
	for _, l := range lines {
		if ansi.StringWidth(l) > 12 {
			t.Errorf("line %q wider than 12", l)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "alpha beta gamma delta epsilon" {
		t.Errorf("words lost: %q", got)
	}
}

func TestRender_EmptyAndNilRenderer(t *testing.T) {
	if got := Render(nil, 40, nil); got != "" {
		t.Errorf("Render(nil) = %q", got)
	}
	if got := ansi.Strip(Render(compile("plain"), 0, nil)); got != "plain" {
		t.Errorf("default renderer = %q", got)
	}
}

func TestRender_BlankLinesKept(t *testing.T) {
	r := NewWriterRenderer(&bytes.Buffer{}, termenv.Ascii, false)
	got := Render([]styled.Run{{Text: "a\n\nb"}}, 0, r)
	if got != "a\n\nb" {
		t.Errorf("Render = %q", got)
	}
}
