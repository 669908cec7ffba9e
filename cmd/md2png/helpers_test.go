package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	md2png "github.com/alnah/go-md2png"
	"github.com/alnah/go-md2png/internal/input"
	"github.com/alnah/go-md2png/internal/locator"
	"github.com/alnah/go-md2png/internal/notify"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and environment
// ---------------------------------------------------------------------------

// fakeConverter records the input and returns a fixed result or err.
type fakeConverter struct {
	err       error
	untypeset bool // reported as UntypesetMath
	got       *md2png.Input
	opts      int
	closed    bool
}

func (f *fakeConverter) Convert(_ context.Context, in md2png.Input) (*md2png.Result, error) {
	f.got = &in
	if f.err != nil {
		return nil, f.err
	}
	return &md2png.Result{
		PNG:      []byte("\x89PNG fake"),
		HTML:     "<html>" + in.Markdown + "</html>",
		Viewport: md2png.Viewport{Width: 375, Height: 640, DeviceScaleFactor: 4, Mobile: true},
		Settle:   md2png.SettledInTime,

		UntypesetMath: f.untypeset,
	}, nil
}

func (f *fakeConverter) Close() error {
	f.closed = true
	return nil
}

// fakeLocator returns a fixed candidate or err.
type fakeLocator struct {
	c   locator.Candidate
	err error
}

func (f fakeLocator) LocateCandidate() (locator.Candidate, error) { return f.c, f.err }

// testEnv bundles an Environment with its observable parts.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	notes    *notify.Recorder
	conv     *fakeConverter
	workDir  string
	vars     map[string]string
	clipText string
}

// newTestEnv returns an environment with no process variables, a clipboard
// holding clipText and a working directory under t.TempDir().
func newTestEnv(t *testing.T, clipText string) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		notes:    &notify.Recorder{},
		conv:     &fakeConverter{},
		workDir:  t.TempDir(),
		vars:     map[string]string{},
		clipText: clipText,
	}
	getwd := func() (string, error) { return te.workDir, nil }

	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		LookupEnv: func(k string) (string, bool) {
			v, ok := te.vars[k]
			return v, ok
		},
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			sort.Strings(out)
			return out
		},
		Notifier: te.notes,
		Clipboard: input.NewClipboard(
			input.WithReader(func() (string, error) { return te.clipText, nil }),
			input.WithRetry(1, time.Millisecond),
			input.WithWorkingDir(getwd),
		),
		NewConverter: func(opts ...md2png.Option) (Converter, error) {
			te.conv.opts = len(opts)
			return te.conv, nil
		},
		Locator: fakeLocator{c: locator.Candidate{Path: "/opt/chrome", Source: locator.SourceWellKnown}},
		BrowserInfo: func(string) (string, error) {
			return "Chromium 130.0.0.0", nil
		},
	}
	return te
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
