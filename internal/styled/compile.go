// Package styled compiles markdown into an ordered sequence of styled text
// runs for live rendering. Compilation is a pure function of the source and
// the StyleContext: no I/O and no state carried between calls.
package styled

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Bullet is the marker emitted before unordered list items.
const Bullet = "• "

// mdParser is the CommonMark parser shared by all compilations. It carries no
// per-document state.
var mdParser = goldmark.DefaultParser()

// Run is a contiguous span of text in one concrete style.
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Result is the output of one compilation.
type Result struct {
	Runs []Run `json:"runs"`
	// Final is the style in effect after the last token.
	Final Style `json:"final"`
	// Depth is the number of styles still saved on the stack; zero for any
	// balanced input.
	Depth int `json:"depth"`
}

// Compile turns markdown source into styled runs. Malformed markdown never
// fails: unrecognized syntax degrades to plain text.
func Compile(src string, sc StyleContext) Result {
	source := []byte(src)
	c := &compiler{src: source, sc: sc, cur: sc.Base()}

	first := bytes.IndexFunc(source, notBlank)
	if first < 0 {
		c.emit(src, c.cur)
		return Result{Runs: c.runs, Final: c.cur}
	}
	// Blank lines ahead of the first block.
	c.emit(string(source[:lineStart(source, first)]), c.cur)

	doc := mdParser.Parse(text.NewReader(source))
	_ = ast.Walk(doc, c.visit)

	tail := source[lineEnd(source, bytes.LastIndexFunc(source, notBlank)):]
	if c.atLineStart() && len(tail) > 0 && tail[0] == '\n' {
		tail = tail[1:]
	}
	c.emit(string(tail), c.cur)
	return Result{Runs: c.runs, Final: c.cur, Depth: c.stack.Depth()}
}

// Text concatenates the visible text of runs.
func Text(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type listState struct {
	ordered bool
	next    int
}

type compiler struct {
	src   []byte
	sc    StyleContext
	cur   Style
	stack Stack
	runs  []Run
	lists []listState
}

func (c *compiler) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering && n.Type() == ast.TypeBlock {
		c.separate(n)
	}

	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			c.push()
			c.cur.HeadingLevel = node.Level
			c.cur.Size = c.sc.headingSize(node.Level)
		} else {
			c.emit("\n", c.cur)
			c.pop()
		}

	case *ast.Emphasis:
		if entering {
			c.push()
			if node.Level >= 2 {
				c.cur.Bold = true
				c.cur.Color = c.sc.Palette.Strong
			} else {
				c.cur.Italic = true
			}
		} else {
			c.pop()
		}

	case *ast.List:
		if entering {
			c.lists = append(c.lists, listState{ordered: node.IsOrdered(), next: node.Start})
		} else {
			if len(c.lists) > 0 {
				c.lists = c.lists[:len(c.lists)-1]
			}
			c.emit("\n", c.cur)
		}

	case *ast.ListItem:
		if entering {
			c.breakLine()
			c.emit(c.marker(), c.cur)
		} else {
			c.emit("\n", c.cur)
		}

	case *ast.Text:
		if entering {
			c.emitText(node)
		}

	case *ast.String:
		if entering {
			c.emit(string(node.Value), c.cur)
		}

	case *ast.CodeSpan:
		if entering {
			c.emit(strings.ReplaceAll(c.inlineText(node), "\n", " "), c.mono())
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			c.emitLines(n.Lines(), c.mono())
			return ast.WalkSkipChildren, nil
		}

	case *ast.HTMLBlock:
		if entering {
			c.emitLines(node.Lines(), c.cur)
			if node.HasClosure() {
				c.emit(string(node.ClosureLine.Value(c.src)), c.cur)
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				c.emit(string(seg.Value(c.src)), c.cur)
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.AutoLink:
		if entering {
			c.emit(string(node.Label(c.src)), c.cur)
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// separate puts a block on its own line and copies the blank lines the
// source had before it. List items manage their own line starts.
func (c *compiler) separate(n ast.Node) {
	if n.PreviousSibling() == nil {
		return
	}
	if _, ok := n.(*ast.ListItem); ok {
		return
	}
	c.breakLine()
	if start, ok := c.blockStart(n); ok {
		if gap := blankLinesBefore(c.src, start); len(gap) > 0 {
			c.emit(string(gap), c.cur)
			return
		}
	}
	if n.HasBlankPreviousLines() {
		c.emit("\n", c.cur)
	}
}

// blockStart finds a source offset on the first line of block n.
func (c *compiler) blockStart(n ast.Node) (int, bool) {
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if fenced.Info != nil {
			return fenced.Info.Segment.Start, true
		}
		// Content starts on the line after the opening fence.
		if lines := fenced.Lines(); lines != nil && lines.Len() > 0 {
			if ls := lineStart(c.src, lines.At(0).Start); ls > 0 {
				return lineStart(c.src, ls-1), true
			}
		}
		return 0, false
	}
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, true
	}
	if fc := n.FirstChild(); fc != nil && fc.Type() == ast.TypeBlock {
		return c.blockStart(fc)
	}
	return 0, false
}

func (c *compiler) marker() string {
	depth := len(c.lists)
	if depth == 0 {
		return Bullet
	}
	indent := strings.Repeat("  ", depth-1)
	ls := &c.lists[depth-1]
	if ls.ordered {
		m := fmt.Sprintf("%s%d. ", indent, ls.next)
		ls.next++
		return m
	}
	return indent + Bullet
}

// emitText writes a text node. Inside paragraphs the indentation and
// trailing spaces the parser trims are copied back from the source line.
func (c *compiler) emitText(t *ast.Text) {
	seg := t.Segment
	inPara := isParagraph(t.Parent())
	if inPara && c.atLineStart() {
		if ws := c.src[lineStart(c.src, seg.Start):seg.Start]; isBlank(ws) {
			c.emit(string(ws), c.cur)
		}
	}

	value := seg.Value(c.src)
	if !t.IsRaw() {
		value = util.UnescapePunctuations(value)
		value = util.ResolveNumericReferences(value)
		value = util.ResolveEntityNames(value)
	}
	c.emit(string(value), c.cur)

	lineBreak := t.SoftLineBreak() || t.HardLineBreak()
	if inPara && (lineBreak || t.NextSibling() == nil) {
		if ws := c.src[seg.Stop:lineEnd(c.src, seg.Stop)]; isBlank(ws) {
			c.emit(string(ws), c.cur)
		}
	}
	if lineBreak {
		c.emit("\n", c.cur)
	}
}

func (c *compiler) emitLines(lines *text.Segments, style Style) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		c.emit(string(seg.Value(c.src)), style)
	}
}

// inlineText collects the raw text under an inline node.
func (c *compiler) inlineText(n ast.Node) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func (c *compiler) mono() Style {
	s := c.cur
	s.Monospace = true
	s.Size = c.sc.MonospaceSize
	return s
}

func (c *compiler) push() {
	c.stack = c.stack.Push(c.cur)
}

// pop restores the style saved by the matching push. Without one the
// current style is kept.
func (c *compiler) pop() {
	c.cur, c.stack, _ = c.stack.Pop(c.cur)
}

func (c *compiler) emit(s string, style Style) {
	if s == "" {
		return
	}
	if n := len(c.runs); n > 0 && c.runs[n-1].Style == style {
		c.runs[n-1].Text += s
		return
	}
	c.runs = append(c.runs, Run{Text: s, Style: style})
}

func (c *compiler) atLineStart() bool {
	n := len(c.runs)
	return n == 0 || strings.HasSuffix(c.runs[n-1].Text, "\n")
}

func (c *compiler) breakLine() {
	if !c.atLineStart() {
		c.emit("\n", c.cur)
	}
}

func isParagraph(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return true
	}
	return false
}

func notBlank(r rune) bool {
	return r != ' ' && r != '\t' && r != '\r' && r != '\n'
}

func isBlank(b []byte) bool {
	return bytes.IndexFunc(b, notBlank) < 0
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(src []byte, pos int) int {
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

// lineEnd returns the offset of the newline ending the line holding pos, or
// len(src) on the last line.
func lineEnd(src []byte, pos int) int {
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(src)
}

// blankLinesBefore returns the run of blank lines directly above the line
// holding pos.
func blankLinesBefore(src []byte, pos int) []byte {
	end := lineStart(src, pos)
	k := end
	for k > 0 {
		p := lineStart(src, k-1)
		if !isBlank(src[p:k]) {
			break
		}
		k = p
	}
	return src[k:end]
}
