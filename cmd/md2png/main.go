// Command md2png renders a markdown file, or the clipboard, to a PNG image
// next to the input.
//
// Success is silent. A failure is reported once: in a message box on
// Windows, on stderr elsewhere.
//
// On Windows, build with -ldflags -H=windowsgui so no console window opens.
package main

import (
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}
