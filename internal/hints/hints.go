// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2png/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// IsInCI reports whether a common CI environment variable is set.
func IsInCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForEngineNotFound returns hints when no browser could be located.
func ForEngineNotFound() string {
	if os.Getenv("MD2PNG_BROWSER_BIN") != "" {
		return format("MD2PNG_BROWSER_BIN is set but does not name an existing file")
	}
	return formatHints([]string{
		"install Microsoft Edge or Google Chrome",
		"or set MD2PNG_BROWSER_BIN to a Chromium-based browser",
	})
}

// ForEngineLaunch returns hints for browser start failures.
// sandboxed reports whether the browser was started with its sandbox on.
func ForEngineLaunch(sandboxed bool) string {
	var hints []string

	if sandboxed && (IsInCI() || IsInContainer()) {
		hints = append(hints, "set MD2PNG_NO_SANDBOX=1 for Docker/CI")
	}
	hints = append(hints, "run md2png --doctor to check the browser")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for long documents, use --timeout or render.timeout")
}

// ForClipboard returns a hint when the clipboard holds no text.
func ForClipboard() string {
	return format("copy the markdown again, or pass a file path")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2png") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForTypesetterMissing returns a hint when no math typesetter is bundled.
func ForTypesetterMissing() string {
	return format("run go generate ./internal/assets, or put mathjax.js in <assets>/scripts")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
