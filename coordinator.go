package md2png

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/ysmood/gson"

	"github.com/alnah/go-md2png/internal/fileutil"
	"github.com/alnah/go-md2png/internal/pipeline"
)

// renderState is a step of one conversion, in the order they run.
// Any step may end in stateFailed.
type renderState int

const (
	stateLaunching renderState = iota
	stateNavigating
	stateAwaitingSettle
	stateMeasuring
	stateResizing
	stateAwaitingPaint
	stateCapturing
	stateDone
	stateFailed
)

func (s renderState) String() string {
	switch s {
	case stateLaunching:
		return "launching"
	case stateNavigating:
		return "navigating"
	case stateAwaitingSettle:
		return "awaiting-settle"
	case stateMeasuring:
		return "measuring"
	case stateResizing:
		return "resizing"
	case stateAwaitingPaint:
		return "awaiting-paint"
	case stateCapturing:
		return "capturing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("renderState(%d)", int(s))
	}
}

// In-page expressions. Each is a function so the engine can call it and
// await a returned promise.
//
// heightExpr avoids documentElement.scrollHeight: in standards mode it never
// reports less than the viewport, so short notes would keep the probe height.
var (
	readyExpr = fmt.Sprintf(`() => document.body !== null && document.body.getAttribute(%q) === %q`,
		pipeline.ReadyAttribute, pipeline.ReadyValue)
	heightExpr = `() => Math.max(document.body.scrollHeight, document.body.offsetHeight, document.documentElement.offsetHeight)`
	paintExpr  = `() => document.fonts.ready.then(() => new Promise(r => requestAnimationFrame(() => r(true))))`
)

// errScript marks an exception thrown by an evaluated expression, as opposed
// to a failure talking to the engine.
var errScript = errors.New("script exception")

// engineSession is one running engine with one page.
type engineSession interface {
	Navigate(ctx context.Context, url string) error
	SetViewport(ctx context.Context, v Viewport) error
	Eval(ctx context.Context, expr string) (gson.JSON, error)
	Capture(ctx context.Context) ([]byte, error)
	PID() int
	// Close stops the engine process. It is called exactly once.
	Close() error
}

// launchSpec holds what the engine is started with.
type launchSpec struct {
	Bin          string
	Viewport     Viewport
	NoSandbox    bool
	AllowNetwork bool
}

// sessionLauncher starts engine processes.
type sessionLauncher interface {
	Launch(ctx context.Context, spec launchSpec) (engineSession, error)
}

// engineLocator finds an installed engine executable.
type engineLocator interface {
	Locate() (string, error)
}

// capture is what a finished render produced.
type capture struct {
	png      []byte
	viewport Viewport
	settle   SettleOutcome
}

// coordinator drives one engine session from launch to capture.
// A coordinator is used for a single run.
type coordinator struct {
	locator  engineLocator
	launcher sessionLauncher
	log      zerolog.Logger

	browserBin    string
	noSandbox     bool
	allowNetwork  bool
	probe         Viewport
	pollInterval  time.Duration
	settleTimeout time.Duration

	started time.Time
	state   renderState
	states  []renderState
}

func newCoordinator(cfg converterConfig, locator engineLocator, launcher sessionLauncher) *coordinator {
	return &coordinator{
		locator:       locator,
		launcher:      launcher,
		log:           cfg.logger,
		browserBin:    cfg.browserBin,
		noSandbox:     cfg.noSandbox,
		allowNetwork:  cfg.allowNetwork,
		probe:         cfg.probeViewport(),
		pollInterval:  cfg.pollInterval,
		settleTimeout: cfg.settleTimeout,
	}
}

// run renders document and returns the captured image. The temporary
// document file and the engine process are released before run returns,
// whatever the outcome.
func (c *coordinator) run(ctx context.Context, document string) (out *capture, err error) {
	c.started = time.Now()
	defer func() {
		if err != nil {
			c.log.Debug().Err(err).Str("at", c.state.String()).Msg("render failed")
			c.enter(stateFailed)
		}
	}()

	c.enter(stateLaunching)
	bin, err := c.resolveEngine()
	if err != nil {
		return nil, err
	}

	docPath, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	defer cleanup()

	sess, err := c.launcher.Launch(ctx, launchSpec{
		Bin:          bin,
		Viewport:     c.probe,
		NoSandbox:    c.noSandbox,
		AllowNetwork: c.allowNetwork,
	})
	if err != nil {
		return nil, wrapKind(ErrEngineLaunch, err)
	}
	defer c.teardown(sess)

	if err := sess.SetViewport(ctx, c.probe); err != nil {
		return nil, wrapKind(ErrEngineLaunch, err)
	}

	c.enter(stateNavigating)
	if err := sess.Navigate(ctx, fileutil.FileURL(docPath)); err != nil {
		return nil, wrapKind(ErrNavigation, err)
	}

	c.enter(stateAwaitingSettle)
	settle, err := pollUntil(ctx, c.pollInterval, c.settleTimeout, c.readyCheck(sess))
	if err != nil {
		return nil, wrapKind(ErrNavigation, err)
	}
	if settle == SettledByDeadline {
		c.log.Warn().Dur("ceiling", c.settleTimeout).Msg("page not ready in time, capturing as is")
	} else {
		c.log.Debug().Str("settle", settle.String()).Msg("page ready")
	}

	c.enter(stateMeasuring)
	final := c.probe.WithHeight(c.measure(ctx, sess))

	c.enter(stateResizing)
	if err := sess.SetViewport(ctx, final); err != nil {
		return nil, wrapKind(ErrCapture, err)
	}

	c.enter(stateAwaitingPaint)
	if err := c.awaitPaint(ctx, sess); err != nil {
		return nil, wrapKind(ErrCapture, err)
	}

	c.enter(stateCapturing)
	png, err := sess.Capture(ctx)
	if err != nil {
		return nil, wrapKind(ErrCapture, err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("%w: engine returned an empty image", ErrCapture)
	}

	c.enter(stateDone)
	return &capture{png: png, viewport: final, settle: settle}, nil
}

// enter records and logs a state transition.
func (c *coordinator) enter(s renderState) {
	c.state = s
	c.states = append(c.states, s)
	c.log.Debug().
		Str("state", s.String()).
		Dur("elapsed", time.Since(c.started)).
		Msg("render state")
}

// resolveEngine returns the configured executable, or searches for one.
func (c *coordinator) resolveEngine() (string, error) {
	if c.browserBin != "" {
		if !fileutil.FileExists(c.browserBin) {
			return "", fmt.Errorf("%w: %s does not exist", ErrEngineNotFound, c.browserBin)
		}
		return c.browserBin, nil
	}
	if c.locator == nil {
		return "", ErrEngineNotFound
	}
	bin, err := c.locator.Locate()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineNotFound, err)
	}
	c.log.Debug().Str("bin", bin).Msg("engine located")
	return bin, nil
}

// readyCheck reports whether the page has set its ready attribute.
// A script exception reads as "not yet".
func (c *coordinator) readyCheck(sess engineSession) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		v, err := sess.Eval(ctx, readyExpr)
		if errors.Is(err, errScript) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return v.Bool(), nil
	}
}

// measure returns the content height in CSS pixels, or the probe height
// when it cannot be read.
func (c *coordinator) measure(ctx context.Context, sess engineSession) int {
	v, err := sess.Eval(ctx, heightExpr)
	if err != nil {
		c.log.Warn().Err(err).Int("fallback", c.probe.Height).Msg("measuring content height failed")
		return c.probe.Height
	}
	h := v.Num()
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 1 {
		c.log.Warn().Str("value", v.String()).Int("fallback", c.probe.Height).Msg("content height is not a number")
		return c.probe.Height
	}
	height := int(math.Ceil(h))
	c.log.Debug().Int("height", height).Msg("content measured")
	return height
}

// awaitPaint waits for web fonts and one animation frame.
func (c *coordinator) awaitPaint(ctx context.Context, sess engineSession) error {
	_, err := sess.Eval(ctx, paintExpr)
	if errors.Is(err, errScript) {
		c.log.Warn().Err(err).Msg("paint wait failed, capturing anyway")
		return nil
	}
	return err
}

// teardown closes the session. Errors are logged: the outcome of the
// conversion is already decided.
func (c *coordinator) teardown(sess engineSession) {
	if err := sess.Close(); err != nil {
		c.log.Debug().Err(err).Int("pid", sess.PID()).Msg("engine close")
	}
}

// wrapKind wraps err in kind. Context errors stay matchable with errors.Is
// so callers can tell a timeout from an engine fault.
func wrapKind(kind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
