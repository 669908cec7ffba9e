// Package input acquires the markdown text to render: a file named on the
// command line, or the system clipboard.
package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/alnah/go-md2png/internal/fileutil"
)

// Sentinel errors for input acquisition.
var (
	ErrEmpty     = errors.New("input is empty")
	ErrClipboard = errors.New("clipboard unavailable")
	ErrRead      = errors.New("cannot read input file")
)

// ClipboardStem names images rendered from clipboard text.
const ClipboardStem = "Markdown_Clipboard"

// fallbackStem names images from files whose name has no stem (".md").
const fallbackStem = "output"

// Clipboard retry defaults: text can be briefly unreadable right after a copy.
const (
	DefaultClipboardAttempts = 3
	DefaultClipboardDelay    = 100 * time.Millisecond
)

// Origin tells where the text came from.
type Origin string

// Input origins.
const (
	OriginFile      Origin = "file"
	OriginClipboard Origin = "clipboard"
)

// Source is acquired markdown plus where its image should go.
type Source struct {
	Text   string
	Origin Origin
	Path   string // input file; empty for clipboard
	Dir    string // default output directory
	Stem   string // output file name without extension
}

// SourceDir returns the directory relative image paths resolve against.
// Clipboard text has none.
func (s *Source) SourceDir() string {
	if s.Origin != OriginFile {
		return ""
	}
	return s.Dir
}

// FromFile reads a markdown file. The image goes next to it, named after its stem.
func FromFile(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	data, err := os.ReadFile(abs) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrRead, path)
	}

	base := filepath.Base(abs)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = fallbackStem
	}

	return &Source{
		Text:   string(data),
		Origin: OriginFile,
		Path:   abs,
		Dir:    filepath.Dir(abs),
		Stem:   stem,
	}, nil
}

// Clipboard reads text from the system clipboard with a bounded retry.
type Clipboard struct {
	read     func() (string, error)
	attempts int
	delay    time.Duration
	getwd    func() (string, error)
}

// ClipboardOption configures a Clipboard.
type ClipboardOption func(*Clipboard)

// WithReader replaces the clipboard read function.
func WithReader(fn func() (string, error)) ClipboardOption {
	return func(c *Clipboard) { c.read = fn }
}

// WithRetry sets the number of attempts and the pause between them.
func WithRetry(attempts int, delay time.Duration) ClipboardOption {
	return func(c *Clipboard) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if delay >= 0 {
			c.delay = delay
		}
	}
}

// WithWorkingDir replaces the working directory lookup.
func WithWorkingDir(fn func() (string, error)) ClipboardOption {
	return func(c *Clipboard) { c.getwd = fn }
}

// NewClipboard creates a Clipboard backed by the system clipboard.
func NewClipboard(opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{
		read:     clipboard.ReadAll,
		attempts: DefaultClipboardAttempts,
		delay:    DefaultClipboardDelay,
		getwd:    os.Getwd,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the clipboard text. A failed read is retried; text that reads
// fine but is blank is not. The image goes to the working directory.
func (c *Clipboard) Read(ctx context.Context) (*Source, error) {
	var (
		text    string
		lastErr error
	)
	for attempt := 1; attempt <= c.attempts; attempt++ {
		text, lastErr = c.read()
		if lastErr == nil {
			break
		}
		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delay):
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrClipboard, lastErr)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: clipboard holds no text", ErrEmpty)
	}

	dir, err := c.getwd()
	if err != nil {
		dir = "."
	}
	return &Source{
		Text:   text,
		Origin: OriginClipboard,
		Dir:    dir,
		Stem:   ClipboardStem,
	}, nil
}

// Resolve reads the file at arg when it names an existing file, and the
// clipboard otherwise (arg empty or missing).
func Resolve(ctx context.Context, arg string, clip *Clipboard) (*Source, error) {
	if arg != "" && fileutil.FileExists(arg) {
		return FromFile(arg)
	}
	return clip.Read(ctx)
}
