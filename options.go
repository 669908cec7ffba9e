package md2png

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout         time.Duration
	logger          zerolog.Logger
	browserBin      string
	noSandbox       bool
	allowNetwork    bool
	width           int
	probeHeight     int
	scale           float64
	pollInterval    time.Duration
	settleTimeout   time.Duration
	typesetFallback time.Duration
	assetPath       string
	style           string
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:         DefaultTimeout,
		logger:          zerolog.Nop(),
		noSandbox:       true,
		width:           DefaultViewportWidth,
		probeHeight:     DefaultProbeHeight,
		scale:           DefaultDeviceScaleFactor,
		pollInterval:    DefaultPollInterval,
		settleTimeout:   DefaultSettleTimeout,
		typesetFallback: DefaultTypesetFallback,
	}
}

// probeViewport is the viewport the page is first laid out at.
func (c converterConfig) probeViewport() Viewport {
	return Viewport{
		Width:             c.width,
		Height:            c.probeHeight,
		DeviceScaleFactor: c.scale,
		Mobile:            true,
	}
}

// WithTimeout bounds a whole conversion, engine start to capture.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2png: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger for conversion progress. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithBrowserBin uses the given executable instead of searching for one.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox toggles the engine's sandbox flag. The sandbox is off by default.
func WithNoSandbox(enable bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = enable
	}
}

// WithAllowNetwork lets the page fetch http(s) resources.
// By default every network request from the page is blocked.
func WithAllowNetwork(enable bool) Option {
	return func(c *Converter) {
		c.cfg.allowNetwork = enable
	}
}

// WithViewportWidth sets the logical page width in CSS pixels.
func WithViewportWidth(w int) Option {
	return func(c *Converter) {
		c.cfg.width = w
	}
}

// WithDeviceScaleFactor sets the device pixel ratio.
func WithDeviceScaleFactor(f float64) Option {
	return func(c *Converter) {
		c.cfg.scale = f
	}
}

// WithProbeHeight sets the placeholder height used before the content is measured.
// It is also the fallback when measuring fails.
func WithProbeHeight(h int) Option {
	return func(c *Converter) {
		c.cfg.probeHeight = h
	}
}

// WithPollInterval sets how often the page's ready signal is checked.
func WithPollInterval(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.pollInterval = d
	}
}

// WithSettleTimeout sets how long to wait for the ready signal before
// capturing anyway.
func WithSettleTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.settleTimeout = d
	}
}

// WithTypesetFallback sets the in-page deadline after which the document
// marks itself ready even if math typesetting has not finished.
func WithTypesetFallback(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.typesetFallback = d
	}
}

// WithAssetPath sets a directory whose styles/ and scripts/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStyle selects the base stylesheet by name. Defaults to "mobile".
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// withSessionLauncher replaces the engine launcher (tests only).
func withSessionLauncher(l sessionLauncher) Option {
	return func(c *Converter) {
		c.launcher = l
	}
}

// withEngineLocator replaces the engine search (tests only).
func withEngineLocator(l engineLocator) Option {
	return func(c *Converter) {
		c.locator = l
	}
}
