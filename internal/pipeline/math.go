package pipeline

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the node kind of a math span.
var KindMath = ast.NewNodeKind("Math")

// Math is an inline math span: $...$ (inline) or $$...$$ (display).
// Literal holds the TeX source between the delimiters, untouched.
type Math struct {
	ast.BaseInline
	Display bool
	Literal []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.Display),
		"Literal": string(n.Literal),
	}, nil)
}

// Delimiter returns the delimiter the typesetter expects for this span.
func (n *Math) Delimiter() string {
	if n.Display {
		return "$$"
	}
	return "$"
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse recognizes $x$ on a single line and $$x$$ across lines.
// A single-dollar span must not start or end with whitespace and its closing
// dollar must not be followed by a digit, so prices like "$5 and $10" stay text.
func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, startSegment := block.PeekLine()
	opener := 0
	for ; opener < len(line) && line[opener] == '$'; opener++ {
	}
	if opener > 2 {
		block.Advance(opener)
		return ast.NewTextSegment(startSegment.WithStop(startSegment.Start + opener))
	}
	if opener == 1 && (len(line) < 2 || util.IsSpace(line[1])) {
		return nil
	}

	block.Advance(opener)
	l, pos := block.Position()
	unclosed := func() ast.Node {
		block.SetPosition(l, pos)
		return ast.NewTextSegment(startSegment.WithStop(startSegment.Start + opener))
	}

	var literal []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			return unclosed()
		}
		if end, ok := findCloser(line, opener); ok {
			literal = append(literal, line[:end]...)
			if len(bytes.TrimSpace(literal)) == 0 {
				return unclosed()
			}
			block.Advance(end + opener)
			return &Math{Display: opener == 2, Literal: literal}
		}
		if opener == 1 {
			return unclosed()
		}
		literal = append(literal, line...)
		block.AdvanceLine()
	}
}

// findCloser returns the index of the closing delimiter run in line.
func findCloser(line []byte, opener int) (int, bool) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			start := i
			for i < len(line) && line[i] == '$' {
				i++
			}
			if i-start != opener {
				i--
				continue
			}
			if opener == 1 {
				if start == 0 || util.IsSpace(line[start-1]) {
					i--
					continue
				}
				if i < len(line) && line[i] >= '0' && line[i] <= '9' {
					i--
					continue
				}
			}
			return start, true
		}
	}
	return -1, false
}

// ---------------------------------------------------------------------------
// Renderer
// ---------------------------------------------------------------------------

// mathRenderer writes math spans back as delimited literal text so the
// in-page typesetter, not the markdown parser, renders them.
type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
}

func (r *mathRenderer) renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)
	delim := n.Delimiter()
	_, _ = w.WriteString(delim)
	_, _ = w.Write(util.EscapeHTML(n.Literal))
	_, _ = w.WriteString(delim)
	return ast.WalkSkipChildren, nil
}

// ---------------------------------------------------------------------------
// Extension
// ---------------------------------------------------------------------------

type mathExtension struct{}

// MathExtension enables $...$ and $$...$$ spans.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 500),
	))
}

// mathDetector parses with the math extension only; nothing is rendered.
var mathDetector = goldmark.New(goldmark.WithExtensions(MathExtension))

// ContainsMath reports whether content has at least one math span.
// Dollar signs inside code spans and fenced blocks do not count.
func ContainsMath(content string) bool {
	source := []byte(content)
	if bytes.IndexByte(source, '$') < 0 {
		return false
	}
	found := false
	_ = ast.Walk(mathDetector.Parser().Parse(text.NewReader(source)), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == KindMath {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
