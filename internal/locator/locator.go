// Package locator finds an installed Chromium-based browser (Chrome, Edge,
// Chromium) that can be driven over the DevTools protocol.
//
// Discovery is pure: candidates are probed with stat, nothing is spawned and
// nothing is downloaded.
package locator

import (
	"errors"
	"io/fs"
	"os"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

// ErrNotFound is returned when no candidate names an existing file.
var ErrNotFound = errors.New("no Chrome or Edge installation found")

// EnvBrowserBin overrides discovery with an explicit executable path.
// ROD_BROWSER_BIN is honored too, as go-rod tooling sets it.
const (
	EnvBrowserBin    = "MD2PNG_BROWSER_BIN"
	EnvRodBrowserBin = "ROD_BROWSER_BIN"
)

// Source tells where a candidate path came from.
type Source string

// Candidate sources in search order.
const (
	SourceEnv       Source = "env"
	SourceRegistry  Source = "registry"
	SourceWellKnown Source = "well-known"
	SourceProfile   Source = "profile"
	SourcePath      Source = "path"
)

// Candidate is one location probed during discovery.
type Candidate struct {
	Path   string `json:"path"`
	Source Source `json:"source"`
}

// Locator resolves a browser executable from a ranked candidate list.
// The zero value is not usable; call New.
type Locator struct {
	goos     string
	getenv   func(string) string
	stat     func(string) (fs.FileInfo, error)
	registry func() []string
	lookPath func() (string, bool)
}

// Option configures a Locator.
type Option func(*Locator)

// WithGOOS selects the platform whose paths are searched.
func WithGOOS(goos string) Option {
	return func(l *Locator) { l.goos = goos }
}

// WithGetenv replaces environment lookups.
func WithGetenv(fn func(string) string) Option {
	return func(l *Locator) { l.getenv = fn }
}

// WithStat replaces the filesystem probe.
func WithStat(fn func(string) (fs.FileInfo, error)) Option {
	return func(l *Locator) { l.stat = fn }
}

// WithRegistry replaces the registry reader. It returns paths in priority order.
func WithRegistry(fn func() []string) Option {
	return func(l *Locator) { l.registry = fn }
}

// WithLookPath replaces the final PATH-based lookup. Pass nil to disable it.
func WithLookPath(fn func() (string, bool)) Option {
	return func(l *Locator) { l.lookPath = fn }
}

// New creates a Locator for the running platform.
func New(opts ...Option) *Locator {
	l := &Locator{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		stat:     os.Stat,
		registry: registryPaths,
		lookPath: launcher.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns every path probed by Locate, in search order:
// environment override, registry, well-known install paths, then paths
// derived from the user profile. The PATH lookup is not listed.
func (l *Locator) Candidates() []Candidate {
	var out []Candidate
	add := func(src Source, paths ...string) {
		for _, p := range paths {
			if p != "" {
				out = append(out, Candidate{Path: p, Source: src})
			}
		}
	}

	add(SourceEnv, l.getenv(EnvBrowserBin), l.getenv(EnvRodBrowserBin))
	if l.goos == "windows" && l.registry != nil {
		add(SourceRegistry, l.registry()...)
	}
	add(SourceWellKnown, wellKnownPaths(l.goos)...)
	add(SourceProfile, profilePaths(l.goos, l.getenv)...)
	return out
}

// Locate returns the first candidate that is an existing regular file.
// When none is, it falls back to go-rod's PATH search. Returns ErrNotFound
// if every probe misses.
func (l *Locator) Locate() (string, error) {
	c, err := l.LocateCandidate()
	if err != nil {
		return "", err
	}
	return c.Path, nil
}

// LocateCandidate is Locate that also reports where the path came from.
func (l *Locator) LocateCandidate() (Candidate, error) {
	for _, c := range l.Candidates() {
		if l.isFile(c.Path) {
			return c, nil
		}
	}
	if l.lookPath != nil {
		if p, ok := l.lookPath(); ok && l.isFile(p) {
			return Candidate{Path: p, Source: SourcePath}, nil
		}
	}
	return Candidate{}, ErrNotFound
}

func (l *Locator) isFile(path string) bool {
	info, err := l.stat(path)
	return err == nil && !info.IsDir()
}
