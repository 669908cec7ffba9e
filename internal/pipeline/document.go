package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ReadyAttribute is set to ReadyValue on <body> once the page has finished
// typesetting, or once the in-page fallback timer fires.
const (
	ReadyAttribute = "data-ready"
	ReadyValue     = "1"
)

// DefaultTypesetFallback bounds how long the page waits for the typesetter
// before marking itself ready anyway.
const DefaultTypesetFallback = 4000 * time.Millisecond

var scriptClose = regexp.MustCompile(`(?i)</script`)

// Document holds the parts of a standalone render document.
type Document struct {
	Style           string        // base stylesheet
	ExtraCSS        string        // appended after Style
	Typesetter      string        // math typesetter source; empty disables typesetting
	TypesetFallback time.Duration // in-page deadline for the ready signal
	Body            string        // HTML fragment
}

// HTML renders the document. The result references nothing outside itself.
func (d Document) HTML() string {
	fallback := d.TypesetFallback
	if fallback <= 0 {
		fallback = DefaultTypesetFallback
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	b.WriteString("<style>")
	b.WriteString(sanitizeCSS(d.Style))
	if d.ExtraCSS != "" {
		b.WriteString("\n")
		b.WriteString(sanitizeCSS(d.ExtraCSS))
	}
	b.WriteString("</style>\n")
	b.WriteString("<script>\n")
	b.WriteString(completionScript(fallback.Milliseconds(), d.Typesetter != ""))
	b.WriteString("</script>\n")
	if d.Typesetter != "" {
		b.WriteString("<script>")
		b.WriteString(sanitizeScript(d.Typesetter))
		b.WriteString("</script>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(d.Body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// completionScript sets the ready attribute when typesetting settles
// (resolved or rejected) or when fallbackMS elapses, whichever comes first.
// Without a typesetter the page is ready on load.
func completionScript(fallbackMS int64, typeset bool) string {
	setDone := fmt.Sprintf(
		"function setDone() { document.body.setAttribute(%s, %s); }\n",
		strconv.Quote(ReadyAttribute), strconv.Quote(ReadyValue),
	)
	timer := fmt.Sprintf("setTimeout(setDone, %d);\n", fallbackMS)
	if !typeset {
		return setDone + timer + "window.addEventListener('load', setDone);\n"
	}
	return setDone + timer + `MathJax = {
  tex: { inlineMath: [['$', '$'], ['\\(', '\\)']], displayMath: [['$$', '$$']] },
  svg: { fontCache: 'global' },
  startup: { pageReady: () => MathJax.startup.defaultPageReady().then(setDone).catch(setDone) }
};
`
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes closing script tags inside inline JavaScript.
// "<\/script" is equivalent to "</script" in JS strings and regex literals.
func sanitizeScript(js string) string {
	return scriptClose.ReplaceAllStringFunc(js, func(m string) string {
		return `<\/` + m[2:]
	})
}

// ---------------------------------------------------------------------------
// Synthesizer
// ---------------------------------------------------------------------------

// Synthesizer turns markdown into a render document body: preprocessing,
// goldmark conversion and image path rewriting.
type Synthesizer struct {
	preprocessor MarkdownPreprocessor
	converter    HTMLConverter
}

// NewSynthesizer creates a Synthesizer with the default preprocessing and
// goldmark converter.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		preprocessor: &CommonMarkPreprocessor{},
		converter:    NewGoldmarkConverter(),
	}
}

// Synthesize converts markdown and returns doc with its Body filled in,
// rendered to HTML. sourceDir, when set, anchors relative image paths.
func (s *Synthesizer) Synthesize(ctx context.Context, markdown, sourceDir string, doc Document) (string, error) {
	content := s.preprocessor.PreprocessMarkdown(ctx, markdown)

	body, err := s.converter.ToHTML(ctx, content)
	if err != nil {
		return "", err
	}

	body, err = RewriteImagePaths(body, sourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting image paths: %v", ErrHTMLConversion, err)
	}

	doc.Body = body
	return doc.HTML(), nil
}
