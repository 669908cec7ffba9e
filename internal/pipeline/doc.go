// Package pipeline builds the standalone HTML document that the browser renders.
//
// Stages:
//   - Markdown preprocessing (line endings, byte order mark, blank lines)
//   - Markdown to HTML via goldmark: tables, strikethrough, highlighted code
//     and math spans written back as literal $...$ / $$...$$ text
//   - Relative image paths rewritten to file:// URLs
//   - Document assembly: stylesheet, typesetter, ready-signal script, body
//
// Math is typeset inside the page, not here. The page marks <body> with
// ReadyAttribute once typesetting settles or its fallback timer fires, and
// the caller polls for that attribute.
package pipeline
