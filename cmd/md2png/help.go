package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2png [flags] [file.md]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown to a PNG image sized for a phone screen.")
	fmt.Fprintln(w, "Without a file, or when the file does not exist, the clipboard is rendered.")
	fmt.Fprintln(w, "The image is written next to the input, or to the working directory for")
	fmt.Fprintln(w, "clipboard text, as <name>.png, <name> (1).png, ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .png file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --html                Also write the generated HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --width <n>           Viewport width in CSS pixels (default 375)")
	fmt.Fprintln(w, "      --scale <f>           Device scale factor (default 4)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Conversion timeout, e.g. 30s (default 1m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name>        Built-in or custom style (default mobile)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended after the style")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding embedded styles and scripts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser <path>      Chrome or Edge executable")
	fmt.Fprintln(w, "      --no-sandbox=<bool>   Disable the browser sandbox (default true)")
	fmt.Fprintln(w, "      --allow-network       Let the page load remote resources")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "      --doctor              Check the environment and exit")
	fmt.Fprintln(w, "      --json                Doctor report as JSON")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w, "  -v, --verbose             Log progress to stderr")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2PNG_CONFIG, MD2PNG_BROWSER_BIN, MD2PNG_TIMEOUT, MD2PNG_STYLE,")
	fmt.Fprintln(w, "  MD2PNG_ASSET_PATH, MD2PNG_OUTPUT_DIR, MD2PNG_NO_SANDBOX, MD2PNG_ALLOW_NETWORK")
	fmt.Fprintln(w, "  are also read from a .env file in the working directory.")
}
