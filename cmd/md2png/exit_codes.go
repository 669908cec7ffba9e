package main

import (
	"errors"
	"os"

	md2png "github.com/alnah/go-md2png"
	"github.com/alnah/go-md2png/internal/config"
	"github.com/alnah/go-md2png/internal/input"
)

// Sentinel errors for the command line.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrReadCSS = errors.New("cannot read CSS file")
)

// Exit codes for md2png CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Image written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Input missing, output not writable
	ExitBrowser = 4 // Browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2png.ErrEngineNotFound) ||
		errors.Is(err, md2png.ErrEngineLaunch) ||
		errors.Is(err, md2png.ErrNavigation) ||
		errors.Is(err, md2png.ErrCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, md2png.ErrInputUnavailable) ||
		errors.Is(err, md2png.ErrOutputWrite) ||
		errors.Is(err, input.ErrEmpty) ||
		errors.Is(err, input.ErrClipboard) ||
		errors.Is(err, input.ErrRead) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrOutOfRange) ||
		errors.Is(err, md2png.ErrInvalidViewport) ||
		errors.Is(err, md2png.ErrInvalidTiming) ||
		errors.Is(err, md2png.ErrStyleNotFound) ||
		errors.Is(err, md2png.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
