package md2png

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/alnah/go-md2png/internal/process"
)

// exitWait bounds how long teardown waits for the engine to exit before
// killing it outright.
const exitWait = 5 * time.Second

// blockedURLs stops the page from reaching the network.
var blockedURLs = []string{"http://*", "https://*", "ws://*", "wss://*"}

// Compile-time interface checks.
var (
	_ sessionLauncher = (*rodLauncher)(nil)
	_ engineSession   = (*rodSession)(nil)
)

// rodLauncher starts a headless engine with go-rod.
type rodLauncher struct{}

// Launch starts the engine at spec.Bin and opens one blank page.
// On error nothing is left running.
func (rodLauncher) Launch(ctx context.Context, spec launchSpec) (engineSession, error) {
	if err := spec.Viewport.Validate(); err != nil {
		return nil, err
	}

	// Bin is always set so rod never downloads a browser of its own.
	l := launcher.New().
		Context(ctx).
		Bin(spec.Bin).
		Headless(true).
		NoSandbox(spec.NoSandbox).
		Set("disable-gpu").
		Set("hide-scrollbars").
		Set("window-size", strconv.Itoa(spec.Viewport.Width)+","+strconv.Itoa(spec.Viewport.Height))

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	s := &rodSession{launcher: l}

	browser := rod.New().ControlURL(u).NoDefaultDevice()
	if err := browser.Connect(); err != nil {
		s.kill()
		return nil, fmt.Errorf("connecting: %w", err)
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	s.page = page

	if !spec.AllowNetwork {
		if err := blockNetwork(page); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("blocking network: %w", err)
		}
	}

	return s, nil
}

// blockNetwork rejects every http(s) and websocket request from the page.
func blockNetwork(page *rod.Page) error {
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return err
	}
	return proto.NetworkSetBlockedURLs{Urls: blockedURLs}.Call(page)
}

// rodSession is one engine process with one page.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// Navigate loads url and waits for the load event.
func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// SetViewport overrides the page's device metrics.
func (s *rodSession) SetViewport(ctx context.Context, v Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return s.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             v.Width,
		Height:            v.Height,
		DeviceScaleFactor: v.DeviceScaleFactor,
		Mobile:            v.Mobile,
	})
}

// Eval calls expr in the page and awaits its result. An exception thrown by
// the script is reported as errScript.
func (s *rodSession) Eval(ctx context.Context, expr string) (gson.JSON, error) {
	res, err := s.page.Context(ctx).Eval(expr)
	if err != nil {
		var evalErr *rod.EvalError
		if errors.As(err, &evalErr) {
			return gson.JSON{}, fmt.Errorf("%w: %v", errScript, err)
		}
		return gson.JSON{}, err
	}
	return res.Value, nil
}

// Capture takes a lossless screenshot of the whole page.
func (s *rodSession) Capture(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		FromSurface:           true,
		CaptureBeyondViewport: true,
	})
}

// PID returns the engine's process ID.
func (s *rodSession) PID() int {
	return s.launcher.PID()
}

// Close asks the engine to quit, then kills whatever is left of its
// process group and removes its profile directory.
func (s *rodSession) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	s.kill()
	return err
}

// kill terminates the engine process tree and waits for it to exit.
func (s *rodSession) kill() {
	process.KillProcessGroup(s.launcher.PID())

	done := make(chan struct{})
	go func() {
		s.launcher.Cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(exitWait):
		s.launcher.Kill()
	}
}
