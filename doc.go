// Package md2png renders Markdown to a PNG image using headless Chrome or Edge.
//
// # Quick Start
//
//	conv, err := md2png.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2png.Input{
//	    Markdown: "# Hello\n\nThe area is $\\pi r^2$.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.png", result.PNG, 0644)
//
// The result carries the image bytes (result.PNG), the synthesized document
// (result.HTML) for debugging, and the viewport the image was captured at.
//
// # Rendering
//
// Each conversion:
//
//  1. builds a standalone HTML document: goldmark output (tables,
//     strikethrough, highlighted code) with math spans kept as literal
//     $...$ and $$...$$ for the embedded MathJax, the stylesheet, and a
//     script that marks the page ready when typesetting ends or a fallback
//     timer fires
//  2. starts the engine with a 375px wide, 800px tall mobile viewport at 4x
//  3. loads the document from a temporary file
//  4. polls the ready mark every 50ms for at most 5s; running out of time
//     is not an error, the page is captured as it is
//  5. measures the content height and resizes the viewport to it
//  6. waits for web fonts and one animation frame
//  7. captures a PNG exactly as tall as the content
//
// The engine process and the temporary file are released on every path out
// of Convert. All network access from the page is blocked unless
// WithAllowNetwork is set.
//
// # Configuration
//
//	conv, err := md2png.NewConverter(
//	    md2png.WithViewportWidth(414),
//	    md2png.WithDeviceScaleFactor(3),
//	    md2png.WithStyle("mobile"),
//	    md2png.WithAssetPath("/path/to/custom/assets"),
//	    md2png.WithLogger(logger),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, md2png.Input{
//	    Markdown:  content,
//	    SourceDir: "/path/to/markdown", // for relative image paths
//	    CSS:       "body { font-size: 18px; }",
//	})
//
// # Browser Requirements
//
// An installed Chrome, Chromium or Edge is required; nothing is downloaded.
// The executable is taken from WithBrowserBin, then MD2PNG_BROWSER_BIN or
// ROD_BROWSER_BIN, then the Windows registry, well-known install paths and
// per-user install paths, then PATH.
package md2png
