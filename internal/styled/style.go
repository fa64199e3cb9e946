package styled

import "github.com/starford/folio/internal/models"

// Default font metrics, in points.
const (
	DefaultBodySize      float32 = 12.5
	DefaultHeadingSize   float32 = 18
	DefaultHeadingStep   float32 = 2
	DefaultMonospaceSize float32 = 12
)

// Style is the concrete visual style of one run. Style is comparable, so
// runs can be merged with ==.
type Style struct {
	Bold         bool       `json:"bold"`
	Italic       bool       `json:"italic"`
	HeadingLevel int        `json:"heading_level"`
	Monospace    bool       `json:"monospace"`
	Size         float32    `json:"size"`
	Color        models.RGB `json:"color"`
}

// Palette holds the colors the compiler may assign.
type Palette struct {
	Text   models.RGB `json:"text"`
	Strong models.RGB `json:"strong"`
}

// Dark and light palettes.
var (
	DarkPalette = Palette{
		Text:   models.RGB{R: 140, G: 140, B: 140},
		Strong: models.RGB{R: 255, G: 255, B: 255},
	}
	LightPalette = Palette{
		Text:   models.RGB{R: 60, G: 60, B: 60},
		Strong: models.RGB{R: 0, G: 0, B: 0},
	}
)

// StyleContext carries the font metrics and palette a compilation runs
// against. It is passed by value and never mutated by the compiler.
type StyleContext struct {
	BodySize      float32
	HeadingSize   float32
	HeadingStep   float32
	MonospaceSize float32
	Palette       Palette
}

// DefaultContext returns the stock metrics with the dark or light palette.
func DefaultContext(dark bool) StyleContext {
	p := LightPalette
	if dark {
		p = DarkPalette
	}
	return StyleContext{
		BodySize:      DefaultBodySize,
		HeadingSize:   DefaultHeadingSize,
		HeadingStep:   DefaultHeadingStep,
		MonospaceSize: DefaultMonospaceSize,
		Palette:       p,
	}
}

// Base returns the style of unformatted body text.
func (sc StyleContext) Base() Style {
	return Style{Size: sc.BodySize, Color: sc.Palette.Text}
}

// headingSize scales the heading font down by HeadingStep per level past 1.
// The size never drops below the body size.
func (sc StyleContext) headingSize(level int) float32 {
	if level < 1 {
		level = 1
	}
	size := sc.HeadingSize - float32(level-1)*sc.HeadingStep
	if size < sc.BodySize {
		size = sc.BodySize
	}
	return size
}

// Stack is a persistent stack of styles. Push and Pop return new values and
// leave the receiver untouched, so a Stack can be shared freely.
type Stack struct {
	top *frame
}

type frame struct {
	style Style
	next  *frame
	depth int
}

// Push returns a stack with s on top.
func (st Stack) Push(s Style) Stack {
	depth := 1
	if st.top != nil {
		depth = st.top.depth + 1
	}
	return Stack{top: &frame{style: s, next: st.top, depth: depth}}
}

// Pop returns the saved style and the remaining stack. On an empty stack it
// returns current unchanged with ok=false.
func (st Stack) Pop(current Style) (Style, Stack, bool) {
	if st.top == nil {
		return current, st, false
	}
	return st.top.style, Stack{top: st.top.next}, true
}

// Depth returns the number of saved styles.
func (st Stack) Depth() int {
	if st.top == nil {
		return 0
	}
	return st.top.depth
}
