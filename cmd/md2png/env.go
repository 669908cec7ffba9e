package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"

	md2png "github.com/alnah/go-md2png"
	"github.com/alnah/go-md2png/internal/input"
	"github.com/alnah/go-md2png/internal/locator"
	"github.com/alnah/go-md2png/internal/notify"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// Converter is the part of md2png.Converter the CLI uses.
type Converter interface {
	Convert(ctx context.Context, in md2png.Input) (*md2png.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*md2png.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   func() []string
	DotEnv    string // path of a .env file; empty skips it
	Notifier  notify.Notifier
	Clipboard *input.Clipboard

	NewConverter func(opts ...md2png.Option) (Converter, error)

	// Doctor probes.
	Locator     engineLocator
	BrowserInfo func(bin string) (string, error)
}

// engineLocator finds a browser executable for the doctor report.
type engineLocator interface {
	LocateCandidate() (locator.Candidate, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
		DotEnv:    dotEnvFile,
		Notifier:  notify.Default(os.Stderr),
		Clipboard: input.NewClipboard(),
		NewConverter: func(opts ...md2png.Option) (Converter, error) {
			return md2png.NewConverter(opts...)
		},
		Locator:     locator.New(),
		BrowserInfo: browserVersion,
	}
}

// browserVersion runs "<bin> --version".
func browserVersion(bin string) (string, error) {
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- bin is the located browser
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// envSource resolves MD2PNG_* variables from the process environment
// and an optional .env file.
type envSource struct {
	lookup func(string) (string, bool)
	names  []string // every variable name seen in either source
}

// loadEnvSource layers the process environment over the .env file: a
// variable set in the process always wins.
func (e *Environment) loadEnvSource() (*envSource, error) {
	var file map[string]string
	if e.DotEnv != "" {
		m, err := godotenv.Read(e.DotEnv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		file = m
	}

	src := &envSource{
		lookup: func(key string) (string, bool) {
			if v, ok := e.LookupEnv(key); ok {
				return v, true
			}
			v, ok := file[key]
			return v, ok
		},
	}
	for _, kv := range e.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		src.names = append(src.names, name)
	}
	for name := range file {
		src.names = append(src.names, name)
	}
	return src, nil
}

// get returns the variable's value, or "" when unset.
func (s *envSource) get(key string) string {
	v, _ := s.lookup(key)
	return v
}
