package md2png

import (
	"errors"

	"github.com/alnah/go-md2png/internal/pipeline"
)

// Sentinel errors for library operations. Every Convert failure wraps exactly
// one of them.
var (
	ErrInputUnavailable = errors.New("input unavailable")
	ErrEngineNotFound   = errors.New("no rendering engine found")
	ErrEngineLaunch     = errors.New("failed to launch rendering engine")
	ErrNavigation       = errors.New("failed to load document")
	ErrCapture          = errors.New("failed to capture image")
	ErrOutputWrite      = errors.New("failed to write image")

	// ErrHTMLConversion is returned when markdown cannot be turned into a document.
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// Option validation errors.
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidTiming   = errors.New("invalid timing")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
