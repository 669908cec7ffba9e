package main

// Notes:
// - exitCodeFor: we test every sentinel the command can surface, plus
//   wrapped errors to verify the errors.Is() chain.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	md2png "github.com/alnah/go-md2png"
	"github.com/alnah/go-md2png/internal/config"
	"github.com/alnah/go-md2png/internal/input"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"engine not found", md2png.ErrEngineNotFound, ExitBrowser},
		{"engine launch", md2png.ErrEngineLaunch, ExitBrowser},
		{"navigation", md2png.ErrNavigation, ExitBrowser},
		{"capture", md2png.ErrCapture, ExitBrowser},
		{"navigation timeout", fmt.Errorf("%w: %w", md2png.ErrNavigation, context.DeadlineExceeded), ExitBrowser},

		// I/O errors (exit 3)
		{"input unavailable", md2png.ErrInputUnavailable, ExitIO},
		{"output write", md2png.ErrOutputWrite, ExitIO},
		{"empty clipboard", fmt.Errorf("%w: %w", md2png.ErrInputUnavailable, input.ErrEmpty), ExitIO},
		{"clipboard", input.ErrClipboard, ExitIO},
		{"read input", input.ErrRead, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"out of range", fmt.Errorf("render: %w", config.ErrOutOfRange), ExitUsage},
		{"invalid viewport", md2png.ErrInvalidViewport, ExitUsage},
		{"invalid timing", md2png.ErrInvalidTiming, ExitUsage},
		{"style not found", md2png.ErrStyleNotFound, ExitUsage},
		{"invalid asset path", md2png.ErrInvalidAssetPath, ExitUsage},

		// General
		{"html conversion", md2png.ErrHTMLConversion, ExitGeneral},
		{"unknown", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes must follow Unix conventions")
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code <= ExitUsage || code >= 126 {
			t.Errorf("custom exit code %d outside 3..125", code)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantAny bool
	}{
		{"engine not found", md2png.ErrEngineNotFound, true},
		{"engine launch", md2png.ErrEngineLaunch, true},
		{"deadline", fmt.Errorf("%w: %w", md2png.ErrNavigation, context.DeadlineExceeded), true},
		{"empty clipboard", input.ErrEmpty, true},
		{"config not found", config.ErrConfigNotFound, true},
		{"style not found", md2png.ErrStyleNotFound, true},
		{"capture has no hint", md2png.ErrCapture, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, config.DefaultConfig())
			if (got != "") != tt.wantAny {
				t.Errorf("hintFor(%v) = %q, want hint: %v", tt.err, got, tt.wantAny)
			}
		})
	}
}
