package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/alnah/go-md2png/internal/assets"
	"github.com/alnah/go-md2png/internal/config"
	"github.com/alnah/go-md2png/internal/fileutil"
	"github.com/alnah/go-md2png/internal/hints"
	"github.com/alnah/go-md2png/internal/locator"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo holds browser detection results.
type browserInfo struct {
	Found   bool           `json:"found"`
	Path    string         `json:"path,omitempty"`
	Source  locator.Source `json:"source,omitempty"`
	Version string         `json:"version,omitempty"`
	Sandbox bool           `json:"sandbox"`
	Network bool           `json:"network"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	Typesetter   bool `json:"typesetter"`
	Clipboard    bool `json:"clipboard"`
}

// runDoctor prints the diagnostic report and returns an exit code:
// ExitSuccess when ready (warnings included), ExitGeneral otherwise.
func runDoctor(env *Environment, cfg *config.Config, jsonOutput bool) int {
	result := diagnose(env, cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// diagnose performs all checks.
func diagnose(env *Environment, cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Container: hints.IsInContainer(),
			CI:        hints.IsInCI(),
		},
	}

	checkBrowser(env, cfg, result)
	checkSystem(cfg, result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkBrowser locates the browser the converter would use.
func checkBrowser(env *Environment, cfg *config.Config, result *doctorResult) {
	b := &result.Browser
	b.Sandbox = cfg.Browser.NoSandbox != nil && !*cfg.Browser.NoSandbox
	b.Network = cfg.Browser.AllowNetwork

	if cfg.Browser.Bin != "" {
		if !fileutil.FileExists(cfg.Browser.Bin) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Browser not found at %s", cfg.Browser.Bin))
			return
		}
		b.Path = cfg.Browser.Bin
		b.Source = locator.SourceEnv
	} else {
		c, err := env.Locator.LocateCandidate()
		if err != nil {
			result.Errors = append(result.Errors,
				"Chrome/Edge not found. Install one or set MD2PNG_BROWSER_BIN")
			return
		}
		b.Path, b.Source = c.Path, c.Source
	}
	b.Found = true

	if v, err := env.BrowserInfo(b.Path); err == nil {
		b.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get browser version: %v", err))
	}

	if b.Sandbox && (result.Env.Container || result.Env.CI) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected with the sandbox enabled. Set MD2PNG_NO_SANDBOX=1")
	}
}

// checkSystem verifies temp space, the typesetter and the clipboard.
func checkSystem(cfg *config.Config, result *doctorResult) {
	path, cleanup, err := fileutil.WriteTempFile("doctor", "html")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %v", err))
	} else {
		cleanup()
		result.System.TempWritable = path != ""
	}

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path: %v", err))
	} else if resolver.HasTypesetter() {
		result.System.Typesetter = true
	} else {
		result.Warnings = append(result.Warnings,
			"Math typesetter not bundled; formulas render as source text")
	}

	result.System.Clipboard = !clipboard.Unsupported
	if clipboard.Unsupported {
		result.Warnings = append(result.Warnings,
			"Clipboard unsupported (install xclip, xsel or wl-clipboard); pass a file instead")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2png doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Browser.Path, r.Browser.Source)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
		if r.Browser.Network {
			fmt.Fprintln(w, "  [OK] Network: allowed")
		} else {
			fmt.Fprintln(w, "  [OK] Network: blocked")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	printCheck(w, r.System.TempWritable, "Temp directory: writable", "Temp directory: not writable", "ERROR")
	printCheck(w, r.System.Typesetter, "Math typesetter: bundled", "Math typesetter: missing", "WARN")
	printCheck(w, r.System.Clipboard, "Clipboard: supported", "Clipboard: unsupported", "WARN")
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printCheck(w io.Writer, ok bool, okText, badText, level string) {
	if ok {
		fmt.Fprintf(w, "  [OK] %s\n", okText)
		return
	}
	fmt.Fprintf(w, "  [%s] %s\n", level, badText)
}
