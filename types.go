package md2png

import (
	"fmt"
	"time"

	"github.com/alnah/go-md2png/internal/pipeline"
)

// Rendering defaults. The width is a phone-sized CSS column; the scale
// factor makes the image sharp on high-density screens.
const (
	DefaultViewportWidth     = 375
	DefaultProbeHeight       = 800
	DefaultDeviceScaleFactor = 4.0
	DefaultPollInterval      = 50 * time.Millisecond
	DefaultSettleTimeout     = 5 * time.Second
	DefaultTypesetFallback   = pipeline.DefaultTypesetFallback
	DefaultTimeout           = 60 * time.Second
)

// Input contains the data for a single conversion.
type Input struct {
	Markdown  string // required, must contain non-whitespace text
	CSS       string // appended after the base stylesheet
	SourceDir string // anchors relative image paths; empty leaves them untouched
}

// Viewport is the logical page size the engine lays out against.
// The captured image is Width*DeviceScaleFactor pixels wide.
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
	Mobile            bool
}

// WithHeight returns a copy of v with only the height changed.
func (v Viewport) WithHeight(h int) Viewport {
	v.Height = h
	return v
}

// Validate checks that every dimension is positive.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	if v.DeviceScaleFactor <= 0 {
		return fmt.Errorf("%w: device scale factor %.2f", ErrInvalidViewport, v.DeviceScaleFactor)
	}
	return nil
}

// PixelSize returns the size of the captured image in device pixels.
func (v Viewport) PixelSize() (width, height int) {
	return int(float64(v.Width) * v.DeviceScaleFactor), int(float64(v.Height) * v.DeviceScaleFactor)
}

// SettleOutcome tells how the wait for the page's ready signal ended.
// Neither outcome is an error.
type SettleOutcome int

const (
	// SettledInTime means the page reported ready before the ceiling.
	SettledInTime SettleOutcome = iota
	// SettledByDeadline means the ceiling expired first; the page was
	// captured as it was.
	SettledByDeadline
)

func (o SettleOutcome) String() string {
	switch o {
	case SettledInTime:
		return "settled"
	case SettledByDeadline:
		return "deadline"
	default:
		return fmt.Sprintf("SettleOutcome(%d)", int(o))
	}
}

// Result contains the output of a successful conversion.
type Result struct {
	PNG      []byte        // encoded image
	HTML     string        // synthesized document, for debugging
	Viewport Viewport      // final viewport the image was captured at
	Settle   SettleOutcome // how the ready wait ended

	// UntypesetMath is set when the input has math spans but no typesetter
	// is bundled, so formulas appear as their TeX source.
	UntypesetMath bool
}
