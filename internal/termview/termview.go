// Package termview paints styled runs on a terminal with lipgloss.
package termview

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/starford/folio/internal/styled"
)

// codeBackground is the dim background behind monospace runs.
var codeBackground = lipgloss.AdaptiveColor{Light: "#ececec", Dark: "#303030"}

// NewRenderer returns a renderer for f. Output that is not a terminal gets
// no escape sequences unless CLICOLOR_FORCE=1 or COLORTERM=truecolor.
func NewRenderer(f *os.File, dark bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(f)
	switch {
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		r.SetColorProfile(termenv.TrueColor)
	case !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()):
		r.SetColorProfile(termenv.Ascii)
	}
	r.SetHasDarkBackground(dark)
	return r
}

// NewWriterRenderer returns a renderer for an arbitrary writer with an
// explicit color profile.
func NewWriterRenderer(w io.Writer, profile termenv.Profile, dark bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(dark)
	return r
}

// Render paints runs line by line. A positive width wraps lines at word
// boundaries; words longer than width are broken.
func Render(runs []styled.Run, width int, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var (
		lines []string
		line  strings.Builder
	)
	flush := func() {
		s := line.String()
		if width > 0 {
			s = ansi.Wrap(s, width, "")
		}
		lines = append(lines, s)
		line.Reset()
	}

	for _, run := range runs {
		st := styleFor(r, run.Style)
		parts := strings.Split(run.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				flush()
			}
			if p != "" {
				line.WriteString(st.Render(p))
			}
		}
	}
	if line.Len() > 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}

func styleFor(r *lipgloss.Renderer, s styled.Style) lipgloss.Style {
	st := r.NewStyle().Foreground(lipgloss.Color(s.Color.Hex()))
	if s.HeadingLevel > 0 {
		st = st.Bold(true).Underline(true)
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Monospace {
		st = st.Background(codeBackground)
	}
	return st
}
